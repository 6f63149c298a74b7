// Package graph exposes the public catalog as a read-only GraphQL schema.
// Resolvers call the same services as the REST controllers and hand
// graphql-go plain maps.
package graph

import (
	"time"

	"github.com/graphql-go/graphql"
	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/app/services"
	gql "github.com/inkwell-studio/atelier/pkg/graphql"
)

var stringList = graphql.NewList(graphql.String)

var artworkType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Artwork",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"title":       &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"category":    &graphql.Field{Type: graphql.String},
		"medium":      &graphql.Field{Type: graphql.String},
		"dimensions":  &graphql.Field{Type: graphql.String},
		"year":        &graphql.Field{Type: graphql.Int},
		"images":      &graphql.Field{Type: stringList},
		"tags":        &graphql.Field{Type: stringList},
		"status":      &graphql.Field{Type: graphql.String},
		"featured":    &graphql.Field{Type: graphql.Boolean},
	},
})

var classType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Class",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"title":         &graphql.Field{Type: graphql.String},
		"description":   &graphql.Field{Type: graphql.String},
		"level":         &graphql.Field{Type: graphql.String},
		"price":         &graphql.Field{Type: graphql.Float},
		"maxStudents":   &graphql.Field{Type: graphql.Int},
		"startDate":     &graphql.Field{Type: graphql.String},
		"endDate":       &graphql.Field{Type: graphql.String},
		"location":      &graphql.Field{Type: graphql.String},
		"status":        &graphql.Field{Type: graphql.String},
		"bookingsCount": &graphql.Field{Type: graphql.Int},
	},
})

var postType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Post",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"title":       &graphql.Field{Type: graphql.String},
		"slug":        &graphql.Field{Type: graphql.String},
		"excerpt":     &graphql.Field{Type: graphql.String},
		"content":     &graphql.Field{Type: graphql.String},
		"coverImage":  &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.String},
		"tags":        &graphql.Field{Type: stringList},
		"publishedAt": &graphql.Field{Type: graphql.String},
	},
})

var testimonialType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Testimonial",
	Fields: graphql.Fields{
		"id":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":     &graphql.Field{Type: graphql.String},
		"role":     &graphql.Field{Type: graphql.String},
		"content":  &graphql.Field{Type: graphql.String},
		"rating":   &graphql.Field{Type: graphql.Int},
		"avatar":   &graphql.Field{Type: graphql.String},
		"featured": &graphql.Field{Type: graphql.Boolean},
	},
})

// NewSchema builds the catalog schema on top of db.
func NewSchema(db *gorm.DB) (graphql.Schema, error) {
	artworks := services.NewArtworkService(db)
	classes := services.NewClassService(db)
	content := services.NewContentService(db)

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"artworks": &graphql.Field{
				Type: graphql.NewList(artworkType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"featured": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					category, _ := p.Args["category"].(string)
					featured, _ := p.Args["featured"].(bool)
					list, err := artworks.List(p.Context, services.ArtworkFilter{Category: category, Featured: featured})
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(list))
					for i, a := range list {
						out[i] = artworkMap(a)
					}
					return out, nil
				},
			},
			"artwork": &graphql.Field{
				Type: artworkType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, services.NotFound("Artwork not found")
					}
					a, err := artworks.Get(p.Context, uint(id))
					if err != nil {
						return nil, err
					}
					return artworkMap(a), nil
				},
			},
			"classes": &graphql.Field{
				Type: graphql.NewList(classType),
				Args: graphql.FieldConfigArgument{
					"upcoming": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					upcoming, _ := p.Args["upcoming"].(bool)
					list, err := classes.List(p.Context, services.ClassFilter{Upcoming: upcoming})
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(list))
					for i, c := range list {
						out[i] = classMap(c)
					}
					return out, nil
				},
			},
			"posts": &graphql.Field{
				Type: graphql.NewList(postType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					category, _ := p.Args["category"].(string)
					list, err := content.Posts(p.Context, category)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(list))
					for i, post := range list {
						out[i] = postMap(post)
					}
					return out, nil
				},
			},
			"testimonials": &graphql.Field{
				Type: graphql.NewList(testimonialType),
				Args: graphql.FieldConfigArgument{
					"featured": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					featured, _ := p.Args["featured"].(bool)
					list, err := content.Testimonials(p.Context, featured)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]any, len(list))
					for i, t := range list {
						out[i] = testimonialMap(t)
					}
					return out, nil
				},
			},
		},
	})
	return gql.NewSchema(query)
}

func artworkMap(a models.Artwork) map[string]any {
	m := map[string]any{
		"id":          int(a.ID),
		"title":       a.Title,
		"description": a.Description,
		"price":       a.Price,
		"category":    a.Category,
		"medium":      a.Medium,
		"dimensions":  a.Dimensions,
		"images":      []string(a.Images),
		"tags":        []string(a.Tags),
		"status":      a.Status,
		"featured":    a.Featured,
	}
	if a.Year != nil {
		m["year"] = *a.Year
	}
	return m
}

func classMap(c models.Class) map[string]any {
	return map[string]any{
		"id":            int(c.ID),
		"title":         c.Title,
		"description":   c.Description,
		"level":         c.Level,
		"price":         c.Price,
		"maxStudents":   c.MaxStudents,
		"startDate":     c.StartDate.UTC().Format(time.RFC3339),
		"endDate":       c.EndDate.UTC().Format(time.RFC3339),
		"location":      c.Location,
		"status":        c.Status,
		"bookingsCount": int(c.BookingsCount),
	}
}

func postMap(p models.Post) map[string]any {
	m := map[string]any{
		"id":         int(p.ID),
		"title":      p.Title,
		"slug":       p.Slug,
		"excerpt":    p.Excerpt,
		"content":    p.Content,
		"coverImage": p.CoverImage,
		"category":   p.Category,
		"tags":       []string(p.Tags),
	}
	if p.PublishedAt != nil {
		m["publishedAt"] = p.PublishedAt.UTC().Format(time.RFC3339)
	}
	return m
}

func testimonialMap(t models.Testimonial) map[string]any {
	m := map[string]any{
		"id":       int(t.ID),
		"name":     t.Name,
		"role":     t.Role,
		"content":  t.Content,
		"rating":   t.Rating,
		"featured": t.Featured,
	}
	if t.Avatar != nil {
		m["avatar"] = *t.Avatar
	}
	return m
}
