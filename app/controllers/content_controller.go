package controllers

import (
	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/services"
	"github.com/inkwell-studio/atelier/pkg/ctx"
)

type InquiryController struct {
	service *services.InquiryService
}

func NewInquiryController(db *gorm.DB) *InquiryController {
	return &InquiryController{service: services.NewInquiryService(db)}
}

// Store is public; a signed-in sender is linked to the inquiry.
func (i *InquiryController) Store(c *ctx.Context) {
	var in services.InquiryInput
	if !c.BindJSON(&in) {
		return
	}
	inq, err := i.service.Create(c.Context(), in, c.UserID())
	if err != nil {
		fail(c, err, "submit inquiry")
		return
	}
	c.Created(inq)
}

func (i *InquiryController) Index(c *ctx.Context) {
	items, err := i.service.List(c.Context(), c.Query("status"), c.Query("type"))
	if err != nil {
		fail(c, err, "fetch inquiries")
		return
	}
	c.Success(items)
}

func (i *InquiryController) Update(c *ctx.Context) {
	var in services.InquiryUpdate
	if !c.BindJSON(&in) {
		return
	}
	inq, err := i.service.Update(c.Context(), in)
	if err != nil {
		fail(c, err, "update inquiry")
		return
	}
	c.Success(inq)
}

type ContentController struct {
	service *services.ContentService
}

func NewContentController(db *gorm.DB) *ContentController {
	return &ContentController{service: services.NewContentService(db)}
}

func (cc *ContentController) Posts(c *ctx.Context) {
	posts, err := cc.service.Posts(c.Context(), c.Query("category"))
	if err != nil {
		fail(c, err, "fetch posts")
		return
	}
	c.Success(posts)
}

func (cc *ContentController) Post(c *ctx.Context) {
	post, err := cc.service.PostBySlug(c.Context(), c.Param("slug"))
	if err != nil {
		fail(c, err, "fetch post")
		return
	}
	c.Success(post)
}

func (cc *ContentController) StorePost(c *ctx.Context) {
	var in services.PostInput
	if !c.BindJSON(&in) {
		return
	}
	if errs := in.CreateErrors(); len(errs) > 0 {
		c.ValidationError(errs)
		return
	}
	post, err := cc.service.CreatePost(c.Context(), in)
	if err != nil {
		fail(c, err, "create post")
		return
	}
	c.Created(post)
}

func (cc *ContentController) UpdatePost(c *ctx.Context) {
	id, ok := idParam(c, "id", "Post not found")
	if !ok {
		return
	}
	var in services.PostInput
	if !c.BindJSON(&in) {
		return
	}
	post, err := cc.service.UpdatePost(c.Context(), id, in)
	if err != nil {
		fail(c, err, "update post")
		return
	}
	c.Success(post)
}

func (cc *ContentController) DestroyPost(c *ctx.Context) {
	id, ok := idParam(c, "id", "Post not found")
	if !ok {
		return
	}
	if err := cc.service.DeletePost(c.Context(), id); err != nil {
		fail(c, err, "delete post")
		return
	}
	c.Message("Post deleted successfully")
}

func (cc *ContentController) Testimonials(c *ctx.Context) {
	items, err := cc.service.Testimonials(c.Context(), c.QueryBool("featured"))
	if err != nil {
		fail(c, err, "fetch testimonials")
		return
	}
	c.Success(items)
}

func (cc *ContentController) StoreTestimonial(c *ctx.Context) {
	var in services.TestimonialInput
	if !c.BindJSON(&in) {
		return
	}
	t, err := cc.service.CreateTestimonial(c.Context(), in)
	if err != nil {
		fail(c, err, "create testimonial")
		return
	}
	c.Created(t)
}

func (cc *ContentController) DestroyTestimonial(c *ctx.Context) {
	id, ok := idParam(c, "id", "Testimonial not found")
	if !ok {
		return
	}
	if err := cc.service.DeleteTestimonial(c.Context(), id); err != nil {
		fail(c, err, "delete testimonial")
		return
	}
	c.Message("Testimonial deleted successfully")
}
