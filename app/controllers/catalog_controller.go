package controllers

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/services"
	"github.com/inkwell-studio/atelier/config"
	"github.com/inkwell-studio/atelier/pkg/bind"
	"github.com/inkwell-studio/atelier/pkg/ctx"
	"github.com/inkwell-studio/atelier/pkg/storage"
)

const maxUploadFiles = 10

type ArtworkController struct {
	service *services.ArtworkService
}

func NewArtworkController(db *gorm.DB) *ArtworkController {
	return &ArtworkController{service: services.NewArtworkService(db)}
}

// Index lists artworks. Passing page or perPage switches to a paginated
// {items, pagination} body.
func (a *ArtworkController) Index(c *ctx.Context) {
	f := services.ArtworkFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Featured: c.QueryBool("featured"),
		SortBy:   c.Query("sortBy"),
	}

	if c.Query("page") != "" || c.Query("perPage") != "" {
		items, p, err := a.service.Page(c.Context(), f, c.QueryInt("page", 1), c.QueryInt("perPage", 12))
		if err != nil {
			fail(c, err, "fetch artworks")
			return
		}
		c.Paginated(items, p)
		return
	}

	items, err := a.service.List(c.Context(), f)
	if err != nil {
		fail(c, err, "fetch artworks")
		return
	}
	c.Success(items)
}

func (a *ArtworkController) Show(c *ctx.Context) {
	id, ok := idParam(c, "id", "Artwork not found")
	if !ok {
		return
	}
	art, err := a.service.Get(c.Context(), id)
	if err != nil {
		fail(c, err, "fetch artwork")
		return
	}
	c.Success(art)
}

func (a *ArtworkController) Store(c *ctx.Context) {
	var in services.ArtworkInput
	if !c.BindJSON(&in) {
		return
	}
	if errs := in.CreateErrors(); len(errs) > 0 {
		c.ValidationError(errs)
		return
	}
	art, err := a.service.Create(c.Context(), in)
	if err != nil {
		fail(c, err, "create artwork")
		return
	}
	c.Created(art)
}

func (a *ArtworkController) Update(c *ctx.Context) {
	id, ok := idParam(c, "id", "Artwork not found")
	if !ok {
		return
	}
	var in services.ArtworkInput
	if !c.BindJSON(&in) {
		return
	}
	art, err := a.service.Update(c.Context(), id, in)
	if err != nil {
		fail(c, err, "update artwork")
		return
	}
	c.Success(art)
}

func (a *ArtworkController) Destroy(c *ctx.Context) {
	id, ok := idParam(c, "id", "Artwork not found")
	if !ok {
		return
	}
	if err := a.service.Delete(c.Context(), id); err != nil {
		fail(c, err, "delete artwork")
		return
	}
	c.Message("Artwork deleted successfully")
}

// Upload stores images from the multipart field "files" on the default disk.
func (a *ArtworkController) Upload(c *ctx.Context) {
	files, err := bind.Files(c.R, "files", config.UploadMaxBytes(), maxUploadFiles)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return
	}
	urls, err := a.service.Upload(c.Context(), storage.Default(), files)
	if err != nil {
		fail(c, err, "upload images")
		return
	}
	c.Created(map[string]any{"urls": urls})
}

type ClassController struct {
	service *services.ClassService
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{service: services.NewClassService(db)}
}

func (cl *ClassController) Index(c *ctx.Context) {
	items, err := cl.service.List(c.Context(), services.ClassFilter{
		Level:    c.Query("level"),
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Upcoming: c.QueryBool("upcoming"),
	})
	if err != nil {
		fail(c, err, "fetch classes")
		return
	}
	c.Success(items)
}

func (cl *ClassController) Show(c *ctx.Context) {
	id, ok := idParam(c, "id", "Class not found")
	if !ok {
		return
	}
	class, err := cl.service.Get(c.Context(), id)
	if err != nil {
		fail(c, err, "fetch class")
		return
	}
	c.Success(class)
}

func (cl *ClassController) Store(c *ctx.Context) {
	var in services.ClassInput
	if !c.BindJSON(&in) {
		return
	}
	if errs := in.CreateErrors(); len(errs) > 0 {
		c.ValidationError(errs)
		return
	}
	class, err := cl.service.Create(c.Context(), in)
	if err != nil {
		fail(c, err, "create class")
		return
	}
	c.Created(class)
}

func (cl *ClassController) Update(c *ctx.Context) {
	id, ok := idParam(c, "id", "Class not found")
	if !ok {
		return
	}
	var in services.ClassInput
	if !c.BindJSON(&in) {
		return
	}
	class, err := cl.service.Update(c.Context(), id, in)
	if err != nil {
		fail(c, err, "update class")
		return
	}
	c.Success(class)
}

func (cl *ClassController) Destroy(c *ctx.Context) {
	id, ok := idParam(c, "id", "Class not found")
	if !ok {
		return
	}
	if err := cl.service.Delete(c.Context(), id); err != nil {
		fail(c, err, "delete class")
		return
	}
	c.Message("Class deleted successfully")
}
