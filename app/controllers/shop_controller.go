package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/app/services"
	"github.com/inkwell-studio/atelier/pkg/ctx"
)

type CartController struct {
	service *services.CartService
}

func NewCartController(db *gorm.DB) *CartController {
	return &CartController{service: services.NewCartService(db)}
}

type addToCartInput struct {
	ArtworkID uint `json:"artworkId" validate:"required"`
	Quantity  *int `json:"quantity" validate:"gte=1"`
}

// Show returns the open cart, or an empty one when the user has none.
func (cc *CartController) Show(c *ctx.Context) {
	cart, err := cc.service.Get(c.Context(), c.UserID())
	if err != nil {
		fail(c, err, "fetch cart")
		return
	}
	if cart == nil {
		c.Success(map[string]any{"orderItems": []models.OrderItem{}})
		return
	}
	c.Success(cart)
}

func (cc *CartController) Add(c *ctx.Context) {
	var in addToCartInput
	if !c.BindJSON(&in) {
		return
	}
	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	item, err := cc.service.Add(c.Context(), c.UserID(), in.ArtworkID, qty)
	if err != nil {
		fail(c, err, "add to cart")
		return
	}
	c.Created(item)
}

func (cc *CartController) Remove(c *ctx.Context) {
	id, ok := idParam(c, "itemId", "Item not found")
	if !ok {
		return
	}
	if err := cc.service.Remove(c.Context(), c.UserID(), id); err != nil {
		fail(c, err, "remove from cart")
		return
	}
	c.Message("Item removed from cart")
}

type OrderController struct {
	service *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{service: services.NewOrderService(db)}
}

func (o *OrderController) Index(c *ctx.Context) {
	orders, err := o.service.List(c.Context(), c.Query("status"))
	if err != nil {
		fail(c, err, "fetch orders")
		return
	}
	c.Success(orders)
}

func (o *OrderController) Mine(c *ctx.Context) {
	orders, err := o.service.Mine(c.Context(), c.UserID())
	if err != nil {
		fail(c, err, "fetch orders")
		return
	}
	c.Success(orders)
}

// Checkout turns the user's cart into a placed order.
func (o *OrderController) Checkout(c *ctx.Context) {
	var in services.CheckoutInput
	if !c.BindJSON(&in) {
		return
	}
	if errs := in.Errors(); len(errs) > 0 {
		c.ValidationError(errs)
		return
	}
	order, err := o.service.Checkout(c.Context(), c.UserID(), in)
	if err != nil {
		fail(c, err, "create order")
		return
	}
	c.Created(order)
}

func (o *OrderController) UpdateStatus(c *ctx.Context) {
	var in services.OrderStatusInput
	if !c.BindJSON(&in) {
		return
	}
	order, err := o.service.UpdateStatus(c.Context(), in)
	if err != nil {
		fail(c, err, "update order")
		return
	}
	c.Success(order)
}

// Export sends the orders as an XLSX workbook.
func (o *OrderController) Export(c *ctx.Context) {
	var buf bytes.Buffer
	if err := o.service.Export(c.Context(), &buf, c.Query("status")); err != nil {
		fail(c, err, "export orders")
		return
	}
	name := fmt.Sprintf("orders-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.SetHeader("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.SetHeader("Content-Disposition", `attachment; filename="`+name+`"`)
	c.W.WriteHeader(http.StatusOK)
	c.W.Write(buf.Bytes()) //nolint:errcheck
}
