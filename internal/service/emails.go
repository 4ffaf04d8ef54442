package service

import (
	"fmt"

	"github.com/atlastrips/travel-booking/internal/domain"
)

type emailContent struct {
	subject string
	body    string
}

// formatMoney renders minor units as a decimal amount
func formatMoney(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d EGP", sign, minor/100, minor%100)
}

func bookingCreatedEmail(b *domain.Booking) emailContent {
	body := fmt.Sprintf(`
		<h2>Booking received</h2>
		<p>Your booking <strong>%s</strong> is reserved.</p>
		<p>Total: %s</p>
		<p>Please complete your cash payment within 48 hours or the
		reservation will be released.</p>`,
		b.BookingNumber, formatMoney(b.TotalPrice))
	return emailContent{
		subject: fmt.Sprintf("Booking %s received", b.BookingNumber),
		body:    body,
	}
}

func bookingConfirmedEmail(b *domain.Booking) emailContent {
	body := fmt.Sprintf(`
		<h2>Booking confirmed</h2>
		<p>Your booking <strong>%s</strong> is confirmed.</p>
		<p>Paid: %s</p>
		<p>Remaining: %s</p>`,
		b.BookingNumber, formatMoney(b.PaidAmount), formatMoney(b.RemainingAmount))
	return emailContent{
		subject: fmt.Sprintf("Booking %s confirmed", b.BookingNumber),
		body:    body,
	}
}

func paymentReceivedEmail(b *domain.Booking) emailContent {
	body := fmt.Sprintf(`
		<h2>Payment received</h2>
		<p>The remaining balance of booking <strong>%s</strong> has been
		paid in full.</p>
		<p>Total paid: %s</p>`,
		b.BookingNumber, formatMoney(b.PaidAmount))
	return emailContent{
		subject: fmt.Sprintf("Booking %s paid in full", b.BookingNumber),
		body:    body,
	}
}

func bookingCancelledEmail(b *domain.Booking) emailContent {
	refundLine := ""
	if b.RefundAmount > 0 {
		refundLine = fmt.Sprintf("<p>Refund issued: %s</p>", formatMoney(b.RefundAmount))
	}
	body := fmt.Sprintf(`
		<h2>Booking cancelled</h2>
		<p>Your booking <strong>%s</strong> has been cancelled.</p>
		%s`,
		b.BookingNumber, refundLine)
	return emailContent{
		subject: fmt.Sprintf("Booking %s cancelled", b.BookingNumber),
		body:    body,
	}
}

func bookingExpiredEmail(b *domain.Booking) emailContent {
	body := fmt.Sprintf(`
		<h2>Booking expired</h2>
		<p>Your booking <strong>%s</strong> was not paid within the
		payment window and has been released.</p>
		<p>You are welcome to book again, subject to availability.</p>`,
		b.BookingNumber)
	return emailContent{
		subject: fmt.Sprintf("Booking %s expired", b.BookingNumber),
		body:    body,
	}
}
