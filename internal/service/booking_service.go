package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/atlastrips/travel-booking/internal/domain"
	"github.com/atlastrips/travel-booking/internal/dto"
	"github.com/atlastrips/travel-booking/internal/gateway"
	"github.com/atlastrips/travel-booking/internal/logger"
	"github.com/atlastrips/travel-booking/internal/notify"
	"github.com/atlastrips/travel-booking/internal/repository"
	"github.com/atlastrips/travel-booking/internal/telemetry"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	departureDateLayout = "2006-01-02"
)

// BookingService handles the booking lifecycle
type BookingService interface {
	// CreateBooking creates a cash booking immediately, or opens a
	// checkout session for card payments. Card bookings only come into
	// existence when the provider confirms payment.
	CreateBooking(ctx context.Context, user domain.User, req *dto.CreateBookingRequest) (*dto.CreateBookingResult, error)

	GetBooking(ctx context.Context, user domain.User, id string) (*dto.BookingResponse, error)
	ListBookings(ctx context.Context, user domain.User, page, pageSize int) (*dto.PaginatedResponse, error)

	// CancelBooking cancels a booking and refunds what was actually paid
	CancelBooking(ctx context.Context, user domain.User, id string) (*dto.BookingResponse, error)

	// ConfirmBooking marks a cash payment as received. Admin only.
	ConfirmBooking(ctx context.Context, id string) (*dto.BookingResponse, error)

	// PayRemaining opens a checkout session for a deposit booking's
	// outstanding balance
	PayRemaining(ctx context.Context, user domain.User, id string) (*dto.CheckoutRedirect, error)

	// FinalizeCheckout applies a verified checkout.session.completed
	// event: it materializes a card booking or settles a remaining
	// balance. Replayed deliveries return domain.ErrDuplicateSession.
	FinalizeCheckout(ctx context.Context, ev *gateway.CheckoutEvent) error

	// ExpireOverdue expires unpaid cash bookings whose payment window
	// has closed, releasing their seats. Returns how many were expired.
	ExpireOverdue(ctx context.Context, batchSize int) (int, error)
}

type bookingService struct {
	bookings repository.BookingRepository
	catalog  repository.CatalogRepository
	payments gateway.PaymentGateway
	notifier notify.Notifier
	now      func() time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookings repository.BookingRepository,
	catalog repository.CatalogRepository,
	payments gateway.PaymentGateway,
	notifier notify.Notifier,
) BookingService {
	return &bookingService{
		bookings: bookings,
		catalog:  catalog,
		payments: payments,
		notifier: notifier,
		now:      time.Now,
	}
}

// bookableItem is the resolved catalog side of a booking request
type bookableItem struct {
	title            string
	rates            domain.RateCard
	departure        time.Time
	pickupAdjustment int64
	availableSeats   int
	seatBound        bool
}

func (s *bookingService) CreateBooking(ctx context.Context, user domain.User, req *dto.CreateBookingRequest) (*dto.CreateBookingResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.CreateBooking")
	defer span.End()

	bookingType, err := domain.ParseBookingType(req.BookingType)
	if err != nil {
		return nil, err
	}

	paymentMethod := domain.PaymentMethod(req.PaymentMethod)
	if !paymentMethod.Valid() {
		return nil, domain.ErrInvalidPaymentMethod
	}
	paymentType := domain.PaymentType(req.PaymentType)
	if !paymentType.Valid() {
		return nil, domain.ErrInvalidPaymentType
	}

	counts := req.Counts()
	if err := counts.Validate(); err != nil {
		return nil, err
	}

	item, err := s.resolveItem(ctx, bookingType, req.ItemID, req.PickupCity, req.DepartureDate)
	if err != nil {
		s.recordError(span, err)
		return nil, err
	}

	if item.seatBound && item.availableSeats < counts.Total() {
		return nil, domain.ErrInsufficientSeats
	}

	quote := domain.CalculatePrice(item.rates, counts, item.pickupAdjustment)

	if paymentMethod == domain.PaymentMethodCard {
		checkout, err := s.openBookingCheckout(ctx, user, bookingType, req.ItemID, item, counts, paymentType, req.PickupCity, quote.Total)
		if err != nil {
			s.recordError(span, err)
			return nil, err
		}
		return &dto.CreateBookingResult{Checkout: checkout}, nil
	}

	now := s.now()
	expiresAt := now.Add(domain.CashPaymentWindow)

	// Cash amounts are split at creation like card amounts, but nothing
	// is collected yet, so the payment status stays pending until an
	// admin confirms the cash was received.
	split := domain.SplitPayment(quote.Total, paymentType)

	booking := &domain.Booking{
		ID:              uuid.NewString(),
		BookingNumber:   domain.NewBookingNumber(now),
		UserID:          user.ID,
		UserEmail:       user.Email,
		BookingType:     bookingType,
		ItemID:          req.ItemID,
		Travelers:       counts,
		PickupCity:      req.PickupCity,
		DepartureDate:   item.departure,
		TotalPrice:      quote.Total,
		PaidAmount:      split.PaidAmount,
		RemainingAmount: split.RemainingAmount,
		PaymentType:     paymentType,
		PaymentMethod:   paymentMethod,
		PaymentStatus:   domain.PaymentStatusPending,
		Status:          domain.BookingStatusPending,
		ExpiresAt:       &expiresAt,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := booking.CheckMoneyInvariant(); err != nil {
		s.recordError(span, err)
		return nil, err
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		s.recordError(span, err)
		return nil, err
	}

	logger.Get().Info("cash booking created",
		zap.String("booking_id", booking.ID),
		zap.String("booking_number", booking.BookingNumber),
		zap.Int64("total_price", booking.TotalPrice),
		zap.Time("expires_at", expiresAt),
	)

	s.notifyAsync(booking.UserEmail, bookingCreatedEmail(booking))

	return &dto.CreateBookingResult{Booking: dto.FromDomain(booking)}, nil
}

func (s *bookingService) GetBooking(ctx context.Context, user domain.User, id string) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.GetBooking")
	defer span.End()

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() && !booking.BelongsToUser(user.ID) {
		return nil, domain.ErrNotBookingOwner
	}
	return dto.FromDomain(booking), nil
}

func (s *bookingService) ListBookings(ctx context.Context, user domain.User, page, pageSize int) (*dto.PaginatedResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ListBookings")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	// One extra row tells us whether another page exists
	limit := pageSize + 1
	offset := (page - 1) * pageSize

	var (
		bookings []*domain.Booking
		err      error
	)
	if user.IsAdmin() {
		bookings, err = s.bookings.ListAll(ctx, limit, offset)
	} else {
		bookings, err = s.bookings.ListByUser(ctx, user.ID, limit, offset)
	}
	if err != nil {
		s.recordError(span, err)
		return nil, err
	}

	hasMore := len(bookings) > pageSize
	if hasMore {
		bookings = bookings[:pageSize]
	}

	responses := make([]*dto.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		responses = append(responses, dto.FromDomain(b))
	}

	return &dto.PaginatedResponse{
		Data:     responses,
		Page:     page,
		PageSize: pageSize,
		HasMore:  hasMore,
	}, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, user domain.User, id string) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.CancelBooking")
	defer span.End()

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() && !booking.BelongsToUser(user.ID) {
		return nil, domain.ErrNotBookingOwner
	}
	switch booking.Status {
	case domain.BookingStatusCancelled:
		return nil, domain.ErrBookingCancelled
	case domain.BookingStatusExpired:
		return nil, domain.ErrBookingExpired
	}

	// Refund exactly what the provider captured. Cash is settled in
	// person and never triggers a provider refund; card deposits refund
	// only the deposit, never the full total.
	var refundAmount int64
	if booking.PaymentMethod == domain.PaymentMethodCard && booking.PaidAmount > 0 {
		if booking.PaymentIntentID == "" {
			return nil, domain.ErrMissingPaymentRef
		}
		refundAmount = booking.PaidAmount
	}

	// The guarded update arbitrates concurrent cancels before any money
	// moves; only the request that wins the transition reaches the
	// provider.
	cancelled, err := s.bookings.Cancel(ctx, booking, refundAmount, s.now())
	if err != nil {
		s.recordError(span, err)
		return nil, err
	}

	if refundAmount > 0 {
		refundID, err := s.payments.Refund(ctx, booking.PaymentIntentID, refundAmount)
		if err != nil {
			s.recordError(span, err)
			logger.Get().Error("refund failed after cancellation, reconcile manually",
				zap.String("booking_id", booking.ID),
				zap.String("booking_number", booking.BookingNumber),
				zap.String("payment_intent_id", booking.PaymentIntentID),
				zap.Int64("refund_amount", refundAmount),
				zap.Error(err),
			)
			return nil, fmt.Errorf("refund failed for booking %s: %w", booking.BookingNumber, err)
		}
		logger.Get().Info("refund issued",
			zap.String("booking_id", booking.ID),
			zap.String("refund_id", refundID),
			zap.Int64("refund_amount", refundAmount),
		)
	}

	s.notifyAsync(cancelled.UserEmail, bookingCancelledEmail(cancelled))

	return dto.FromDomain(cancelled), nil
}

func (s *bookingService) ConfirmBooking(ctx context.Context, id string) (*dto.BookingResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ConfirmBooking")
	defer span.End()

	confirmed, err := s.bookings.Confirm(ctx, id)
	if err != nil {
		s.recordError(span, err)
		return nil, err
	}

	logger.Get().Info("booking confirmed",
		zap.String("booking_id", confirmed.ID),
		zap.String("booking_number", confirmed.BookingNumber),
	)

	s.notifyAsync(confirmed.UserEmail, bookingConfirmedEmail(confirmed))

	return dto.FromDomain(confirmed), nil
}

func (s *bookingService) PayRemaining(ctx context.Context, user domain.User, id string) (*dto.CheckoutRedirect, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.PayRemaining")
	defer span.End()

	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() && !booking.BelongsToUser(user.ID) {
		return nil, domain.ErrNotBookingOwner
	}
	switch booking.Status {
	case domain.BookingStatusCancelled:
		return nil, domain.ErrBookingCancelled
	case domain.BookingStatusExpired:
		return nil, domain.ErrBookingExpired
	}
	if booking.PaymentType != domain.PaymentTypeDeposit || booking.RemainingAmount <= 0 {
		return nil, domain.ErrNoRemainingAmount
	}

	session, err := s.payments.CreateCheckoutSession(ctx, &gateway.CheckoutSessionRequest{
		AmountMinor:       booking.RemainingAmount,
		ProductName:       fmt.Sprintf("Remaining balance for %s", booking.BookingNumber),
		CustomerEmail:     booking.UserEmail,
		ClientReferenceID: booking.ID,
		Metadata: map[string]string{
			gateway.MetaKind:      gateway.KindRemainingPayment,
			gateway.MetaBookingID: booking.ID,
			gateway.MetaUserID:    booking.UserID,
		},
	})
	if err != nil {
		s.recordError(span, err)
		return nil, fmt.Errorf("failed to open checkout for remaining balance: %w", err)
	}

	return &dto.CheckoutRedirect{
		SessionID:  session.SessionID,
		SessionURL: session.URL,
	}, nil
}

func (s *bookingService) FinalizeCheckout(ctx context.Context, ev *gateway.CheckoutEvent) error {
	ctx, span := telemetry.StartSpan(ctx, "service.FinalizeCheckout")
	defer span.End()

	if ev.Type != gateway.EventCheckoutCompleted {
		logger.Get().Debug("ignoring webhook event", zap.String("type", ev.Type))
		return nil
	}

	if ev.Metadata[gateway.MetaKind] == gateway.KindRemainingPayment {
		return s.settleRemaining(ctx, ev)
	}
	return s.materializeCardBooking(ctx, ev)
}

func (s *bookingService) settleRemaining(ctx context.Context, ev *gateway.CheckoutEvent) error {
	bookingID := ev.Metadata[gateway.MetaBookingID]
	if bookingID == "" {
		bookingID = ev.ClientReferenceID
	}
	if bookingID == "" {
		return fmt.Errorf("remaining payment event %s carries no booking reference", ev.SessionID)
	}

	settled, err := s.bookings.SettleRemaining(ctx, bookingID, ev.PaymentIntentID)
	if err != nil {
		return err
	}

	logger.Get().Info("remaining balance settled",
		zap.String("booking_id", settled.ID),
		zap.String("session_id", ev.SessionID),
		zap.Int64("paid_amount", settled.PaidAmount),
	)

	s.notifyAsync(settled.UserEmail, paymentReceivedEmail(settled))
	return nil
}

// materializeCardBooking creates the booking a completed card checkout
// paid for. The booking is rebuilt from session metadata; nothing here
// trusts client state. The session ID's unique index makes replays safe.
func (s *bookingService) materializeCardBooking(ctx context.Context, ev *gateway.CheckoutEvent) error {
	meta, err := parseBookingMetadata(ev)
	if err != nil {
		return err
	}

	// Fast path for replays. The unique index on the session ID is the
	// authority for near-simultaneous deliveries; this read just avoids
	// burning a booking number on the obvious ones.
	if _, err := s.bookings.GetBySessionID(ctx, ev.SessionID); err == nil {
		return domain.ErrDuplicateSession
	} else if !errors.Is(err, domain.ErrBookingNotFound) {
		return err
	}

	paid := ev.AmountTotal
	remaining := meta.totalPrice - paid
	if remaining < 0 {
		return fmt.Errorf("session %s captured %d, more than the booking total %d",
			ev.SessionID, paid, meta.totalPrice)
	}

	paymentStatus := domain.PaymentStatusPaid
	if remaining > 0 {
		paymentStatus = domain.PaymentStatusPartial
	}

	now := s.now()
	booking := &domain.Booking{
		ID:              uuid.NewString(),
		BookingNumber:   domain.NewBookingNumber(now),
		UserID:          meta.userID,
		UserEmail:       meta.userEmail,
		BookingType:     meta.bookingType,
		ItemID:          meta.itemID,
		Travelers:       meta.counts,
		PickupCity:      meta.pickupCity,
		DepartureDate:   meta.departureDate,
		TotalPrice:      meta.totalPrice,
		PaidAmount:      paid,
		RemainingAmount: remaining,
		PaymentType:     meta.paymentType,
		PaymentMethod:   domain.PaymentMethodCard,
		PaymentStatus:   paymentStatus,
		Status:          domain.BookingStatusConfirmed,
		StripeSessionID: ev.SessionID,
		PaymentIntentID: ev.PaymentIntentID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := booking.CheckMoneyInvariant(); err != nil {
		return err
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, domain.ErrInsufficientSeats) {
			// The seats sold out between checkout and webhook delivery.
			// The payment is captured but cannot be honored; this needs
			// a human and a refund.
			logger.Get().Error("paid checkout cannot be seated",
				zap.String("session_id", ev.SessionID),
				zap.String("item_id", meta.itemID),
				zap.Int("seats", meta.counts.Total()),
				zap.Int64("amount_paid", paid),
			)
		}
		return err
	}

	logger.Get().Info("card booking confirmed",
		zap.String("booking_id", booking.ID),
		zap.String("booking_number", booking.BookingNumber),
		zap.String("session_id", ev.SessionID),
		zap.Int64("paid_amount", paid),
	)

	s.notifyAsync(booking.UserEmail, bookingConfirmedEmail(booking))
	return nil
}

func (s *bookingService) ExpireOverdue(ctx context.Context, batchSize int) (int, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.ExpireOverdue")
	defer span.End()

	overdue, err := s.bookings.ListExpiredCash(ctx, s.now(), batchSize)
	if err != nil {
		s.recordError(span, err)
		return 0, err
	}

	expired := 0
	for _, b := range overdue {
		applied, err := s.bookings.MarkExpired(ctx, b)
		if err != nil {
			logger.Get().Error("failed to expire booking",
				zap.String("booking_id", b.ID),
				zap.Error(err),
			)
			continue
		}
		if !applied {
			// Paid or cancelled since we listed it; nothing to do
			continue
		}

		expired++
		logger.Get().Info("booking expired",
			zap.String("booking_id", b.ID),
			zap.String("booking_number", b.BookingNumber),
			zap.Int("seats_released", seatsReleased(b)),
		)
		s.notifyAsync(b.UserEmail, bookingExpiredEmail(b))
	}

	return expired, nil
}

func seatsReleased(b *domain.Booking) int {
	if !b.SeatBound() {
		return 0
	}
	return b.Travelers.Total()
}

// resolveItem loads the catalog side of a booking request and validates
// its departure
func (s *bookingService) resolveItem(ctx context.Context, bookingType domain.BookingType, itemID, pickupCity, departureDate string) (*bookableItem, error) {
	switch bookingType {
	case domain.BookingTypeTrip:
		if departureDate == "" {
			return nil, domain.ErrMissingDeparture
		}
		departure, err := time.Parse(departureDateLayout, departureDate)
		if err != nil {
			return nil, domain.ErrPastDepartureDate
		}
		if err := s.validateDeparture(departure); err != nil {
			return nil, err
		}
		trip, err := s.catalog.GetTrip(ctx, itemID)
		if err != nil {
			return nil, err
		}
		return &bookableItem{
			title:     trip.Title,
			rates:     trip.RateCard(),
			departure: departure,
		}, nil

	case domain.BookingTypePackage:
		pkg, err := s.catalog.GetPackage(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if err := s.validateDeparture(pkg.DepartureDate); err != nil {
			return nil, err
		}
		return &bookableItem{
			title:            pkg.Title,
			rates:            pkg.RateCard(),
			departure:        pkg.DepartureDate,
			pickupAdjustment: pkg.PickupAdjustment(pickupCity),
			availableSeats:   pkg.AvailableSeats,
			seatBound:        true,
		}, nil
	}
	return nil, domain.ErrInvalidBookingType
}

// validateDeparture rejects departures on or before today, compared at
// date granularity
func (s *bookingService) validateDeparture(departure time.Time) error {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	dep := time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, time.UTC)
	if !dep.After(today) {
		return domain.ErrPastDepartureDate
	}
	return nil
}

// openBookingCheckout opens the hosted payment page for a new card
// booking. Everything the webhook needs to rebuild the booking rides in
// the session metadata.
func (s *bookingService) openBookingCheckout(
	ctx context.Context,
	user domain.User,
	bookingType domain.BookingType,
	itemID string,
	item *bookableItem,
	counts domain.TravelerCounts,
	paymentType domain.PaymentType,
	pickupCity string,
	total int64,
) (*dto.CheckoutRedirect, error) {
	amountDue := domain.AmountDueNow(total, paymentType)

	session, err := s.payments.CreateCheckoutSession(ctx, &gateway.CheckoutSessionRequest{
		AmountMinor:       amountDue,
		ProductName:       item.title,
		CustomerEmail:     user.Email,
		ClientReferenceID: user.ID,
		Metadata: map[string]string{
			gateway.MetaKind:          gateway.KindBooking,
			gateway.MetaBookingType:   bookingType.String(),
			gateway.MetaItemID:        itemID,
			gateway.MetaUserID:        user.ID,
			gateway.MetaUserEmail:     user.Email,
			gateway.MetaAdults:        strconv.Itoa(counts.Adults),
			gateway.MetaChildren:      strconv.Itoa(counts.Children),
			gateway.MetaForeigners:    strconv.Itoa(counts.Foreigners),
			gateway.MetaPickupCity:    pickupCity,
			gateway.MetaPaymentType:   string(paymentType),
			gateway.MetaDepartureDate: item.departure.Format(time.RFC3339),
			gateway.MetaTotalPrice:    strconv.FormatInt(total, 10),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open checkout session: %w", err)
	}

	logger.Get().Info("checkout session opened",
		zap.String("session_id", session.SessionID),
		zap.String("user_id", user.ID),
		zap.Int64("amount_due", amountDue),
	)

	return &dto.CheckoutRedirect{
		SessionID:  session.SessionID,
		SessionURL: session.URL,
	}, nil
}

// bookingMetadata is what a booking checkout session carries
type bookingMetadata struct {
	bookingType   domain.BookingType
	itemID        string
	userID        string
	userEmail     string
	counts        domain.TravelerCounts
	pickupCity    string
	paymentType   domain.PaymentType
	departureDate time.Time
	totalPrice    int64
}

func parseBookingMetadata(ev *gateway.CheckoutEvent) (*bookingMetadata, error) {
	md := ev.Metadata
	bookingType, err := domain.ParseBookingType(md[gateway.MetaBookingType])
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", ev.SessionID, err)
	}

	meta := &bookingMetadata{
		bookingType: bookingType,
		itemID:      md[gateway.MetaItemID],
		userID:      md[gateway.MetaUserID],
		userEmail:   md[gateway.MetaUserEmail],
		pickupCity:  md[gateway.MetaPickupCity],
		paymentType: domain.PaymentType(md[gateway.MetaPaymentType]),
	}
	if meta.itemID == "" || meta.userID == "" {
		return nil, fmt.Errorf("session %s metadata is missing item or user", ev.SessionID)
	}
	if !meta.paymentType.Valid() {
		return nil, fmt.Errorf("session %s: %w", ev.SessionID, domain.ErrInvalidPaymentType)
	}

	meta.counts.Adults, err = metaInt(md, gateway.MetaAdults)
	if err == nil {
		meta.counts.Children, err = metaInt(md, gateway.MetaChildren)
	}
	if err == nil {
		meta.counts.Foreigners, err = metaInt(md, gateway.MetaForeigners)
	}
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", ev.SessionID, err)
	}
	if err := meta.counts.Validate(); err != nil {
		return nil, fmt.Errorf("session %s: %w", ev.SessionID, err)
	}

	meta.departureDate, err = time.Parse(time.RFC3339, md[gateway.MetaDepartureDate])
	if err != nil {
		return nil, fmt.Errorf("session %s has an invalid departure date: %w", ev.SessionID, err)
	}

	meta.totalPrice, err = strconv.ParseInt(md[gateway.MetaTotalPrice], 10, 64)
	if err != nil || meta.totalPrice <= 0 {
		return nil, fmt.Errorf("session %s has an invalid total price %q", ev.SessionID, md[gateway.MetaTotalPrice])
	}

	return meta, nil
}

func metaInt(md map[string]string, key string) (int, error) {
	n, err := strconv.Atoi(md[key])
	if err != nil {
		return 0, fmt.Errorf("invalid %s count %q", key, md[key])
	}
	return n, nil
}

func (s *bookingService) recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// notifyAsync sends an email without blocking or failing the request
func (s *bookingService) notifyAsync(to string, email emailContent) {
	if to == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.notifier.Send(ctx, to, email.subject, email.body); err != nil {
			logger.Get().Warn("failed to send booking email",
				zap.String("to", to),
				zap.String("subject", email.subject),
				zap.Error(err),
			)
		}
	}()
}
