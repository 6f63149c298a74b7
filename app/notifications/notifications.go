// Package notifications holds the studio's outgoing messages.
package notifications

import (
	"fmt"
	"html"
	"strings"

	"github.com/inkwell-studio/atelier/app/models"
	"github.com/inkwell-studio/atelier/config"
	"github.com/inkwell-studio/atelier/pkg/notification"
)

func money(v float64) string { return fmt.Sprintf("$%.2f", v) }

func greeting(name string) string {
	if name == "" {
		return "<p>Hello,</p>"
	}
	return "<p>Hello " + html.EscapeString(name) + ",</p>"
}

// BookingConfirmed goes to the student who booked a class.
type BookingConfirmed struct {
	Booking models.Booking
}

func (BookingConfirmed) Via() []string { return []string{notification.ChannelMail} }

func (n BookingConfirmed) ToMail() notification.MailData {
	var name, title, when string
	if u := n.Booking.User; u != nil {
		name = u.Name
	}
	if c := n.Booking.Class; c != nil {
		title = c.Title
		when = c.StartDate.Format("Monday, January 2 2006")
	}
	var b strings.Builder
	b.WriteString(greeting(name))
	fmt.Fprintf(&b, "<p>Your seat in <strong>%s</strong> is confirmed.</p>", html.EscapeString(title))
	if when != "" {
		fmt.Fprintf(&b, "<p>The class starts on %s.</p>", when)
	}
	return notification.MailData{Subject: "Booking confirmed: " + title, HTML: b.String()}
}

// OrderConfirmed goes to the customer after checkout.
type OrderConfirmed struct {
	Order models.Order
}

func (OrderConfirmed) Via() []string { return []string{notification.ChannelMail} }

func (n OrderConfirmed) ToMail() notification.MailData {
	o := n.Order
	number := ""
	if o.OrderNumber != nil {
		number = *o.OrderNumber
	}
	var name string
	if o.User != nil {
		name = o.User.Name
	}

	var b strings.Builder
	b.WriteString(greeting(name))
	fmt.Fprintf(&b, "<p>Thank you for your order <strong>%s</strong>.</p><ul>", html.EscapeString(number))
	for _, item := range o.OrderItems {
		title := fmt.Sprintf("Artwork #%d", item.ArtworkID)
		if item.Artwork != nil {
			title = item.Artwork.Title
		}
		fmt.Fprintf(&b, "<li>%s &times; %d, %s</li>", html.EscapeString(title), item.Quantity, money(item.Price))
	}
	fmt.Fprintf(&b, "</ul><p>Subtotal %s<br>Tax %s<br>Shipping %s<br><strong>Total %s</strong></p>",
		money(o.Subtotal), money(o.Tax), money(o.Shipping), money(o.Total))
	return notification.MailData{Subject: "Order " + number + " received", HTML: b.String()}
}

// OrderPlaced tells the studio a sale happened.
type OrderPlaced struct {
	Order models.Order
}

func (OrderPlaced) Via() []string { return []string{notification.ChannelSlack} }

func (n OrderPlaced) ToSlack() notification.SlackData {
	number := ""
	if n.Order.OrderNumber != nil {
		number = *n.Order.OrderNumber
	}
	return notification.SlackData{
		Text: fmt.Sprintf("New order %s for %s", number, money(n.Order.Total)),
		Blocks: []notification.SlackAttachment{{
			Color: "good",
			Title: fmt.Sprintf("%d item(s)", len(n.Order.OrderItems)),
			Text:  config.AppURL() + "/admin/orders",
		}},
	}
}

// InquiryReceived alerts the studio to a contact-form submission.
type InquiryReceived struct {
	Inquiry models.Inquiry
}

func (InquiryReceived) Via() []string {
	return []string{notification.ChannelMail, notification.ChannelSlack}
}

func (n InquiryReceived) ToMail() notification.MailData {
	i := n.Inquiry
	body := fmt.Sprintf(
		"<p><strong>%s</strong> &lt;%s&gt; wrote (%s, %s priority):</p><blockquote>%s</blockquote>",
		html.EscapeString(i.Name), html.EscapeString(i.Email), i.Type, strings.ToLower(i.Priority),
		strings.ReplaceAll(html.EscapeString(i.Message), "\n", "<br>"),
	)
	return notification.MailData{Subject: "New inquiry: " + i.Subject, HTML: body}
}

func (n InquiryReceived) ToSlack() notification.SlackData {
	color := "#439FE0"
	if n.Inquiry.Priority == models.PriorityHigh {
		color = "danger"
	}
	return notification.SlackData{
		Text: fmt.Sprintf("New %s inquiry from %s", strings.ToLower(n.Inquiry.Type), n.Inquiry.Name),
		Blocks: []notification.SlackAttachment{{
			Color: color,
			Title: n.Inquiry.Subject,
			Text:  n.Inquiry.Message,
		}},
	}
}

// PasswordReset carries the single-use reset link.
type PasswordReset struct {
	Name  string
	Token string
}

func (PasswordReset) Via() []string { return []string{notification.ChannelMail} }

// Link points at the frontend's reset page.
func (n PasswordReset) Link() string {
	return config.Get("FRONTEND_URL", config.AppURL()) + "/reset-password?token=" + n.Token
}

func (n PasswordReset) ToMail() notification.MailData {
	link := html.EscapeString(n.Link())
	body := greeting(n.Name) +
		`<p>Someone asked to reset the password for your account. The link below is valid for one hour.</p>` +
		`<p><a href="` + link + `">Reset your password</a></p>` +
		`<p>If this was not you, ignore this email.</p>`
	return notification.MailData{Subject: "Reset your password", HTML: body}
}
