// Package routes maps the /api surface onto controllers.
package routes

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/controllers"
	"github.com/inkwell-studio/atelier/app/graph"
	"github.com/inkwell-studio/atelier/pkg/ctx"
	gql "github.com/inkwell-studio/atelier/pkg/graphql"
	"github.com/inkwell-studio/atelier/pkg/middleware"
	"github.com/inkwell-studio/atelier/pkg/rbac"
	"github.com/inkwell-studio/atelier/pkg/router"
	"github.com/inkwell-studio/atelier/pkg/ws"
)

// Deps are what the controllers are built from.
type Deps struct {
	DB  *gorm.DB
	Hub *ws.Hub
}

func RegisterAPI(r *router.Router, d Deps) error {
	authC := controllers.NewAuthController(d.DB)
	artworks := controllers.NewArtworkController(d.DB)
	classes := controllers.NewClassController(d.DB)
	bookings := controllers.NewBookingController(d.DB)
	cart := controllers.NewCartController(d.DB)
	orders := controllers.NewOrderController(d.DB)
	inquiries := controllers.NewInquiryController(d.DB)
	content := controllers.NewContentController(d.DB)
	admin := controllers.NewAdminController(d.DB, d.Hub)

	// Every /api request carries its claims when the token verifies.
	api := r.Group("/api", middleware.Authenticate)
	signedIn := middleware.RequireAuth("Unauthorized")

	a := api.Group("/auth")
	a.Post("/signup", "auth.signup", ctx.Wrap(authC.Signup))
	a.Post("/login", "auth.login", ctx.Wrap(authC.Login))
	a.Get("/me", "auth.me", ctx.Wrap(authC.Me))
	a.Post("/logout", "auth.logout", ctx.Wrap(authC.Logout))
	a.Post("/forgot-password", "auth.forgot-password", ctx.Wrap(authC.ForgotPassword))
	a.Post("/reset-password", "auth.reset-password", ctx.Wrap(authC.ResetPassword))

	api.Get("/artworks", "artworks.index", ctx.Wrap(artworks.Index))
	api.Post("/artworks", "artworks.store", ctx.Wrap(artworks.Store), rbac.RequireAdmin)
	api.Post("/artworks/upload", "artworks.upload", ctx.Wrap(artworks.Upload), rbac.RequireAdmin)
	api.Get("/artworks/{id}", "artworks.show", ctx.Wrap(artworks.Show))
	api.Put("/artworks/{id}", "artworks.update", ctx.Wrap(artworks.Update), rbac.RequireAdmin)
	api.Delete("/artworks/{id}", "artworks.destroy", ctx.Wrap(artworks.Destroy), rbac.RequireAdmin)

	api.Get("/classes", "classes.index", ctx.Wrap(classes.Index))
	api.Post("/classes", "classes.store", ctx.Wrap(classes.Store), rbac.RequireAdmin)
	api.Get("/classes/{id}", "classes.show", ctx.Wrap(classes.Show))
	api.Put("/classes/{id}", "classes.update", ctx.Wrap(classes.Update), rbac.RequireAdmin)
	api.Delete("/classes/{id}", "classes.destroy", ctx.Wrap(classes.Destroy), rbac.RequireAdmin)

	b := api.Group("/bookings", middleware.RequireAuth("Authentication required"))
	b.Get("", "bookings.index", ctx.Wrap(bookings.Index))
	b.Post("", "bookings.store", ctx.Wrap(bookings.Store))
	b.Get("/{id}", "bookings.show", ctx.Wrap(bookings.Show))
	b.Put("/{id}", "bookings.update", ctx.Wrap(bookings.Update))
	b.Delete("/{id}", "bookings.destroy", ctx.Wrap(bookings.Destroy))

	c := api.Group("/cart", middleware.RequireAuth("Authentication required"))
	c.Get("", "cart.show", ctx.Wrap(cart.Show))
	c.Post("", "cart.add", ctx.Wrap(cart.Add))
	c.Delete("/{itemId}", "cart.remove", ctx.Wrap(cart.Remove))

	api.Get("/orders", "orders.index", ctx.Wrap(orders.Index), rbac.RequireAdmin)
	api.Post("/orders", "orders.checkout", ctx.Wrap(orders.Checkout), signedIn)
	api.Put("/orders", "orders.update", ctx.Wrap(orders.UpdateStatus), rbac.RequireAdmin)
	api.Get("/orders/mine", "orders.mine", ctx.Wrap(orders.Mine), signedIn)

	api.Post("/inquiries", "inquiries.store", ctx.Wrap(inquiries.Store))
	api.Get("/inquiries", "inquiries.index", ctx.Wrap(inquiries.Index), rbac.RequireAdmin)
	api.Put("/inquiries", "inquiries.update", ctx.Wrap(inquiries.Update), rbac.RequireAdmin)

	api.Get("/posts", "posts.index", ctx.Wrap(content.Posts))
	api.Get("/posts/{slug}", "posts.show", ctx.Wrap(content.Post))
	api.Post("/posts", "posts.store", ctx.Wrap(content.StorePost), rbac.RequireAdmin)
	api.Put("/posts/{id}", "posts.update", ctx.Wrap(content.UpdatePost), rbac.RequireAdmin)
	api.Delete("/posts/{id}", "posts.destroy", ctx.Wrap(content.DestroyPost), rbac.RequireAdmin)

	api.Get("/testimonials", "testimonials.index", ctx.Wrap(content.Testimonials))
	api.Post("/testimonials", "testimonials.store", ctx.Wrap(content.StoreTestimonial), rbac.RequireAdmin)
	api.Delete("/testimonials/{id}", "testimonials.destroy", ctx.Wrap(content.DestroyTestimonial), rbac.RequireAdmin)

	adm := api.Group("/admin", rbac.RequireAdmin)
	adm.Get("/stats", "admin.stats", ctx.Wrap(admin.Stats))
	adm.Get("/orders/export", "admin.orders.export", ctx.Wrap(orders.Export))
	adm.Get("/live", "admin.live", ctx.Wrap(admin.Live))
	adm.Get("/events", "admin.events", ctx.Wrap(admin.Events))

	schema, err := graph.NewSchema(d.DB)
	if err != nil {
		return fmt.Errorf("routes: graphql schema: %w", err)
	}
	api.Handle("/graphql", "graphql", gql.Handler(schema))
	return nil
}
