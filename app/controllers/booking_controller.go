package controllers

import (
	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/services"
	"github.com/inkwell-studio/atelier/pkg/ctx"
)

type BookingController struct {
	service *services.BookingService
}

func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{service: services.NewBookingService(db)}
}

type createBookingInput struct {
	ClassID uint    `json:"classId" validate:"required"`
	Notes   *string `json:"notes" validate:"max=2000"`
}

func (b *BookingController) Index(c *ctx.Context) {
	items, err := b.service.List(c.Context(), c.UserID())
	if err != nil {
		fail(c, err, "fetch bookings")
		return
	}
	c.Success(items)
}

func (b *BookingController) Store(c *ctx.Context) {
	var in createBookingInput
	if !c.BindJSON(&in) {
		return
	}
	booking, err := b.service.Create(c.Context(), c.UserID(), in.ClassID, in.Notes)
	if err != nil {
		fail(c, err, "create booking")
		return
	}
	c.Created(booking)
}

func (b *BookingController) Show(c *ctx.Context) {
	id, ok := idParam(c, "id", "Booking not found")
	if !ok {
		return
	}
	booking, err := b.service.Get(c.Context(), c.UserID(), id)
	if err != nil {
		fail(c, err, "fetch booking")
		return
	}
	c.Success(booking)
}

func (b *BookingController) Update(c *ctx.Context) {
	id, ok := idParam(c, "id", "Booking not found")
	if !ok {
		return
	}
	var in services.BookingUpdate
	if !c.BindJSON(&in) {
		return
	}
	booking, err := b.service.Update(c.Context(), c.UserID(), id, in)
	if err != nil {
		fail(c, err, "update booking")
		return
	}
	c.Success(booking)
}

func (b *BookingController) Destroy(c *ctx.Context) {
	id, ok := idParam(c, "id", "Booking not found")
	if !ok {
		return
	}
	if err := b.service.Cancel(c.Context(), c.UserID(), id); err != nil {
		fail(c, err, "cancel booking")
		return
	}
	c.Message("Booking cancelled successfully")
}
