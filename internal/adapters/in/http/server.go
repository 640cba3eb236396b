// Package http exposes the REST surface: order placement, snapshot and
// delta reads, and rider enrollment. Live interaction happens over the
// event channel; these endpoints cover bootstrap and the poll fallback.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"khabarlagbe/internal/core/application/usecases/commands"
	"khabarlagbe/internal/core/application/usecases/queries"
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/core/ports"
	"khabarlagbe/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	placeOrder      commands.PlaceOrderCommandHandler
	registerRider   commands.RegisterRiderCommandHandler
	setAvailability commands.SetRiderAvailabilityCommandHandler
	getOrder        queries.GetOrderQueryHandler
	getOrderChanges queries.GetOrderChangesQueryHandler
	getActiveOrders queries.GetActiveOrdersQueryHandler
	otp             ports.OtpVerifier
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	placeOrder commands.PlaceOrderCommandHandler,
	registerRider commands.RegisterRiderCommandHandler,
	setAvailability commands.SetRiderAvailabilityCommandHandler,
	getOrder queries.GetOrderQueryHandler,
	getOrderChanges queries.GetOrderChangesQueryHandler,
	getActiveOrders queries.GetActiveOrdersQueryHandler,
	otp ports.OtpVerifier,
) *Server {
	return &Server{
		placeOrder:      placeOrder,
		registerRider:   registerRider,
		setAvailability: setAvailability,
		getOrder:        getOrder,
		getOrderChanges: getOrderChanges,
		getActiveOrders: getActiveOrders,
		otp:             otp,
	}
}

// Register mounts all routes on the echo instance.
func (s *Server) Register(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/changes", s.GetOrderChanges)
	api.GET("/orders/:id/otp", s.GetOrderOtp)
	api.POST("/riders", s.RegisterRider)
	api.PUT("/riders/:id/availability", s.SetRiderAvailability)
}

// Error is the JSON error body returned by every endpoint.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// GeoPointBody is a coordinate pair in request and response bodies.
type GeoPointBody struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// PlaceOrderRequest is the body for POST /api/v1/orders.
type PlaceOrderRequest struct {
	CustomerID   string       `json:"customerId"`
	RestaurantID string       `json:"restaurantId"`
	Pickup       GeoPointBody `json:"pickup"`
	Dropoff      GeoPointBody `json:"dropoff"`
}

// PlaceOrderResponse returns the id the server assigned to the new order.
type PlaceOrderResponse struct {
	OrderID string `json:"orderId"`
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var body PlaceOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid request body")
	}

	customerID, err := parseID(body.CustomerID)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid customer id")
	}
	restaurantID, err := parseID(body.RestaurantID)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid restaurant id")
	}
	pickup, err := kernel.NewGeoPoint(body.Pickup.Lat, body.Pickup.Lon)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid pickup location")
	}
	dropoff, err := kernel.NewGeoPoint(body.Dropoff.Lat, body.Dropoff.Lon)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid dropoff location")
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewPlaceOrderCommand(orderID, customerID, restaurantID, pickup, dropoff)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid order data: "+err.Error())
	}

	if err = s.placeOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, PlaceOrderResponse{OrderID: orderID.String()})
}

// OrderResponse is the snapshot body returned by GET /api/v1/orders/:id.
type OrderResponse struct {
	OrderID             string              `json:"orderId"`
	Status              string              `json:"status"`
	Version             int64               `json:"version"`
	RiderID             string              `json:"riderId,omitempty"`
	EstimatedPrepMin    int                 `json:"estimatedPrepMinutes"`
	NeedsManualDispatch bool                `json:"needsManualDispatch"`
	Timeline            []TimelineEntryBody `json:"timeline"`
}

// TimelineEntryBody is one timeline entry in a snapshot body. Kind is
// carried so poll-fallback clients can resynthesize the missed events.
type TimelineEntryBody struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	Actor  string    `json:"actor"`
	Note   string    `json:"note,omitempty"`
	Kind   string    `json:"kind"`
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := parseID(ctx.Param("id"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err.Error())
	}

	snap, err := s.getOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return commandError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponse(snap))
}

// OrderChangesResponse is the delta body returned by the changes endpoint:
// the authoritative snapshot plus the events the caller missed.
type OrderChangesResponse struct {
	Order  OrderResponse `json:"order"`
	Events []EventBody   `json:"events"`
}

// EventBody is one resynthesized event in a delta body.
type EventBody struct {
	Event     string    `json:"event"`
	OrderID   string    `json:"orderId"`
	Version   int64     `json:"version"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Note      string    `json:"note,omitempty"`
	RiderID   string    `json:"riderId,omitempty"`
}

// GetOrderChanges handles GET /api/v1/orders/:id/changes?since_version=N.
// since_version -1 (the default) replays the full timeline.
func (s *Server) GetOrderChanges(ctx echo.Context) error {
	orderID, err := parseID(ctx.Param("id"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid order id")
	}

	sinceVersion := int64(-1)
	if raw := ctx.QueryParam("since_version"); raw != "" {
		parsed, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			return jsonError(ctx, http.StatusBadRequest, "invalid since_version")
		}
		sinceVersion = parsed
	}

	query, err := queries.NewGetOrderChangesQuery(orderID, sinceVersion)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err.Error())
	}

	response, err := s.getOrderChanges.Handle(ctx.Request().Context(), query)
	if err != nil {
		return commandError(ctx, err)
	}

	events := make([]EventBody, 0, len(response.Events))
	for _, event := range response.Events {
		body := EventBody{
			Event:     string(event.Kind),
			OrderID:   event.OrderID.String(),
			Version:   event.Version,
			Status:    event.Status.String(),
			Timestamp: event.Timestamp,
			Actor:     event.Actor.String(),
			Note:      event.Note,
		}
		if event.RiderID != nil {
			body.RiderID = event.RiderID.String()
		}
		events = append(events, body)
	}

	return ctx.JSON(http.StatusOK, OrderChangesResponse{
		Order:  orderResponse(response.Snapshot),
		Events: events,
	})
}

// GetActiveOrders handles GET /api/v1/orders/active?role=...&actor_id=...
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	role, err := kernel.RoleFromString(ctx.QueryParam("role"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid role")
	}
	actorID, err := parseID(ctx.QueryParam("actor_id"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid actor id")
	}

	query, err := queries.NewGetActiveOrdersQuery(role, actorID)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err.Error())
	}

	snapshots, err := s.getActiveOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return commandError(ctx, err)
	}

	response := make([]OrderResponse, 0, len(snapshots))
	for _, snap := range snapshots {
		response = append(response, orderResponse(snap))
	}
	return ctx.JSON(http.StatusOK, response)
}

// OtpResponse carries a hand-off verification code.
type OtpResponse struct {
	OrderID string `json:"orderId"`
	Stage   string `json:"stage"`
	Code    string `json:"code"`
}

// GetOrderOtp handles GET /api/v1/orders/:id/otp with stage, role, and
// actor_id query parameters. Codes are issued lazily on first fetch and
// stay stable afterwards. They travel only over this endpoint, never with
// channel events, so watching the order room does not leak the hand-off
// codes. Each stage is served only to the party who reads it out: pickup
// to the order's restaurant or customer, delivery to the customer alone.
// The rider, who must recite the code to prove the hand-off, never gets it.
func (s *Server) GetOrderOtp(ctx echo.Context) error {
	orderID, err := parseID(ctx.Param("id"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid order id")
	}

	var stage ports.OtpStage
	switch ctx.QueryParam("stage") {
	case "pickup":
		stage = ports.OtpStagePickup
	case "delivery":
		stage = ports.OtpStageDelivery
	default:
		return jsonError(ctx, http.StatusBadRequest, "stage must be pickup or delivery")
	}

	role, err := kernel.RoleFromString(ctx.QueryParam("role"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid role")
	}
	actorID, err := parseID(ctx.QueryParam("actor_id"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid actor id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err.Error())
	}
	snapshot, err := s.getOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return commandError(ctx, err)
	}

	if !otpStageAllowed(stage, role, actorID, snapshot) {
		return jsonError(ctx, http.StatusForbidden, "code is not served to this actor")
	}

	code, err := s.otp.Issue(ctx.Request().Context(), orderID, stage)
	if err != nil {
		return commandError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, OtpResponse{
		OrderID: orderID.String(),
		Stage:   string(stage),
		Code:    code,
	})
}

func otpStageAllowed(stage ports.OtpStage, role kernel.Role, actorID kernel.UUID, snapshot order.Snapshot) bool {
	switch stage {
	case ports.OtpStagePickup:
		return (role == kernel.RoleRestaurant && snapshot.RestaurantID.IsEqual(actorID)) ||
			(role == kernel.RoleCustomer && snapshot.CustomerID.IsEqual(actorID))
	case ports.OtpStageDelivery:
		return role == kernel.RoleCustomer && snapshot.CustomerID.IsEqual(actorID)
	default:
		return false
	}
}

// RegisterRiderRequest is the body for POST /api/v1/riders.
type RegisterRiderRequest struct {
	Name string `json:"name"`
}

// RegisterRiderResponse returns the id assigned to the new rider.
type RegisterRiderResponse struct {
	RiderID string `json:"riderId"`
}

// RegisterRider handles POST /api/v1/riders.
func (s *Server) RegisterRider(ctx echo.Context) error {
	var body RegisterRiderRequest
	if err := ctx.Bind(&body); err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid request body")
	}

	riderID := kernel.NewUUID()
	cmd, err := commands.NewRegisterRiderCommand(riderID, body.Name)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid rider data: "+err.Error())
	}

	if err = s.registerRider.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, RegisterRiderResponse{RiderID: riderID.String()})
}

// SetAvailabilityRequest is the body for PUT /api/v1/riders/:id/availability.
type SetAvailabilityRequest struct {
	Online bool `json:"online"`
}

// SetRiderAvailability handles PUT /api/v1/riders/:id/availability.
func (s *Server) SetRiderAvailability(ctx echo.Context) error {
	riderID, err := parseID(ctx.Param("id"))
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid rider id")
	}

	var body SetAvailabilityRequest
	if err = ctx.Bind(&body); err != nil {
		return jsonError(ctx, http.StatusBadRequest, "invalid request body")
	}

	cmd, err := commands.NewSetRiderAvailabilityCommand(riderID, body.Online)
	if err != nil {
		return jsonError(ctx, http.StatusBadRequest, err.Error())
	}

	if err = s.setAvailability.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func orderResponse(snap order.Snapshot) OrderResponse {
	response := OrderResponse{
		OrderID:             snap.ID.String(),
		Status:              snap.Status.String(),
		Version:             snap.Version,
		EstimatedPrepMin:    snap.EstimatedPrepMin,
		NeedsManualDispatch: snap.NeedsManualDispatch,
		Timeline:            make([]TimelineEntryBody, 0, len(snap.Timeline)),
	}
	if snap.RiderID != nil {
		response.RiderID = snap.RiderID.String()
	}
	for _, entry := range snap.Timeline {
		response.Timeline = append(response.Timeline, TimelineEntryBody{
			Status: entry.Status.String(),
			At:     entry.At,
			Actor:  entry.Actor.String(),
			Note:   entry.Note,
			Kind:   string(entry.Kind),
		})
	}
	return response
}

// commandError maps use-case failures onto HTTP statuses.
func commandError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return jsonError(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrVersionConflict), errors.Is(err, order.ErrInvalidTransition):
		return jsonError(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return jsonError(ctx, http.StatusBadRequest, err.Error())
	default:
		return jsonError(ctx, http.StatusInternalServerError, "internal error")
	}
}

func jsonError(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, Error{Code: code, Message: message})
}

func parseID(raw string) (kernel.UUID, error) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return kernel.UUIDFromBytes(parsed[:])
}
