package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"khabarlagbe/internal/core/application/usecases/commands"
	"khabarlagbe/internal/core/application/usecases/queries"
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// errRoleNotAllowed rejects a command issued by the wrong actor class.
// Identity within the class is the aggregate's check.
var errRoleNotAllowed = errors.New("command is not allowed for this role")

// Commands bundles the handlers the channel dispatches client commands to.
type Commands struct {
	ConfirmOrder     commands.ConfirmOrderCommandHandler
	RejectOrder      commands.RejectOrderCommandHandler
	StartPreparing   commands.StartPreparingCommandHandler
	MarkOrderReady   commands.MarkOrderReadyCommandHandler
	CancelOrder      commands.CancelOrderCommandHandler
	ReportArrival    commands.ReportRiderArrivalCommandHandler
	PickupOrder      commands.PickupOrderCommandHandler
	StartDelivery    commands.StartDeliveryCommandHandler
	CompleteDelivery commands.CompleteDeliveryCommandHandler
	ResolveOffer     commands.ResolveOfferCommandHandler
	RecordLocation   commands.RecordRiderLocationCommandHandler
}

// Server accepts channel connections and runs their read loops. Inbound
// commands are fire-and-forget: the handler's outcome comes back to the
// client as a broadcast event, and only rejections produce a direct error
// frame.
type Server struct {
	hub      *Hub
	changes  queries.GetOrderChangesQueryHandler
	commands Commands
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewServer creates the channel endpoint handler.
func NewServer(hub *Hub, changes queries.GetOrderChangesQueryHandler, cmds Commands, logger *slog.Logger) *Server {
	return &Server{
		hub:      hub,
		changes:  changes,
		commands: cmds,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Identity comes from the auth layer in front of this
			// service; the channel itself accepts any origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With("component", "ws-server"),
	}
}

// Handle upgrades GET /ws?role=...&actor_id=... to a channel session.
func (s *Server) Handle(c echo.Context) error {
	role, err := kernel.RoleFromString(c.QueryParam("role"))
	if err != nil || role == kernel.RoleSystem {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	actorID, err := parseUUID(c.QueryParam("actor_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid actor id")
	}

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	session := newSession(role, actorID, conn)
	s.hub.register(session)
	go session.writePump()

	s.logger.Info("session connected",
		"role", role.String(),
		"actor_id", actorID.String())

	s.readLoop(c.Request().Context(), session)
	return nil
}

func (s *Server) readLoop(ctx context.Context, session *Session) {
	defer func() {
		s.hub.unregister(session)
		s.logger.Info("session disconnected",
			"role", session.role.String(),
			"actor_id", session.actorID.String())
	}()

	session.conn.SetReadDeadline(time.Now().Add(pongWait))
	session.conn.SetPongHandler(func(string) error {
		session.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := session.conn.ReadMessage()
		if err != nil {
			return
		}

		var frame CommandFrame
		if err = json.Unmarshal(payload, &frame); err != nil {
			s.sendError(session, CommandFrame{}, errors.New("malformed command frame"))
			continue
		}

		if err = s.dispatch(ctx, session, frame); err != nil {
			s.sendError(session, frame, err)
		}
	}
}

// dispatch routes one inbound command. Room management and sync run inside
// the channel; everything else maps onto a command handler.
func (s *Server) dispatch(ctx context.Context, session *Session, frame CommandFrame) error {
	switch frame.Command {
	case "join_order":
		orderID, err := parseUUID(frame.OrderID)
		if err != nil {
			return err
		}
		s.hub.joinOrder(session, orderID)
		return nil

	case "leave_order":
		orderID, err := parseUUID(frame.OrderID)
		if err != nil {
			return err
		}
		s.hub.leaveOrder(session, orderID)
		return nil

	case "sync":
		return s.handleSync(ctx, session, frame)

	case "order_accepted":
		if err := requireRole(session, kernel.RoleRestaurant); err != nil {
			return err
		}
		var payload confirmPayload
		if err := unmarshalPayload(frame.Payload, &payload); err != nil {
			return err
		}
		return s.withOrderID(frame, func(orderID kernel.UUID) error {
			cmd, err := commands.NewConfirmOrderCommand(orderID, session.actorID, payload.PrepMinutes)
			if err != nil {
				return err
			}
			return s.commands.ConfirmOrder.Handle(ctx, cmd)
		})

	case "order_rejected":
		if err := requireRole(session, kernel.RoleRestaurant); err != nil {
			return err
		}
		var payload rejectPayload
		if err := unmarshalPayload(frame.Payload, &payload); err != nil {
			return err
		}
		return s.withOrderID(frame, func(orderID kernel.UUID) error {
			cmd, err := commands.NewRejectOrderCommand(orderID, session.actorID, payload.Reason)
			if err != nil {
				return err
			}
			return s.commands.RejectOrder.Handle(ctx, cmd)
		})

	case "order_preparing":
		if err := requireRole(session, kernel.RoleRestaurant); err != nil {
			return err
		}
		return s.withOrderID(frame, func(orderID kernel.UUID) error {
			cmd, err := commands.NewStartPreparingCommand(orderID, session.actorID)
			if err != nil {
				return err
			}
			return s.commands.StartPreparing.Handle(ctx, cmd)
		})

	case "order_ready":
		if err := requireRole(session, kernel.RoleRestaurant); err != nil {
			return err
		}
		return s.withOrderID(frame, func(orderID kernel.UUID) error {
			cmd, err := commands.NewMarkOrderReadyCommand(orderID, session.actorID)
			if err != nil {
				return err
			}
			return s.commands.MarkOrderReady.Handle(ctx, cmd)
		})

	case "order_cancelled":
		if err := requireRole(session, kernel.RoleCustomer); err != nil {
			return err
		}
		var payload cancelPayload
		if err := unmarshalPayload(frame.Payload, &payload); err != nil {
			return err
		}
		return s.withOrderID(frame, func(orderID kernel.UUID) error {
			cmd, err := commands.NewCancelOrderCommand(orderID, session.actorID, session.role, payload.Note)
			if err != nil {
				return err
			}
			return s.commands.CancelOrder.Handle(ctx, cmd)
		})

	case "rider_arrived":
		if err := requireRole(session, kernel.RoleRider); err != nil {
			return err
		}
		return s.withOrderID(frame, func(orderID kernel.UUID) error {
			cmd, err := commands.NewReportRiderArrivalCommand(orderID, session.actorID)
			if err != nil {
				return err
			}
			return s.commands.ReportArrival.Handle(ctx, cmd)
		})

	case "order_picked_up":
		if err := requireRole(session, kernel.RoleRider); err != nil {
			return err
		}
		var payload otpPayload
		if err := unmarshalPayload(frame.Payload, &payload); err != nil {
			return err
		}
		return s.withOrderID(frame, func(orderID kernel.UUID) error {
			cmd, err := commands.NewPickupOrderCommand(orderID, session.actorID, payload.Otp)
			if err != nil {
				return err
			}
			return s.commands.PickupOrder.Handle(ctx, cmd)
		})

	case "start_delivery":
		if err := requireRole(session, kernel.RoleRider); err != nil {
			return err
		}
		return s.withOrderID(frame, func(orderID kernel.UUID) error {
			cmd, err := commands.NewStartDeliveryCommand(orderID, session.actorID)
			if err != nil {
				return err
			}
			return s.commands.StartDelivery.Handle(ctx, cmd)
		})

	case "order_delivered":
		if err := requireRole(session, kernel.RoleRider); err != nil {
			return err
		}
		var payload otpPayload
		if err := unmarshalPayload(frame.Payload, &payload); err != nil {
			return err
		}
		return s.withOrderID(frame, func(orderID kernel.UUID) error {
			cmd, err := commands.NewCompleteDeliveryCommand(orderID, session.actorID, payload.Otp)
			if err != nil {
				return err
			}
			return s.commands.CompleteDelivery.Handle(ctx, cmd)
		})

	case "offer_accepted", "offer_declined":
		if err := requireRole(session, kernel.RoleRider); err != nil {
			return err
		}
		var payload offerPayload
		if err := unmarshalPayload(frame.Payload, &payload); err != nil {
			return err
		}
		offerID, err := parseUUID(payload.OfferID)
		if err != nil {
			return err
		}
		cmd, err := commands.NewResolveOfferCommand(offerID, session.actorID, frame.Command == "offer_accepted")
		if err != nil {
			return err
		}
		return s.commands.ResolveOffer.Handle(ctx, cmd)

	case "rider_location":
		if err := requireRole(session, kernel.RoleRider); err != nil {
			return err
		}
		var payload locationPayload
		if err := unmarshalPayload(frame.Payload, &payload); err != nil {
			return err
		}
		return s.withOrderID(frame, func(orderID kernel.UUID) error {
			position, err := kernel.NewGeoPoint(payload.Lat, payload.Lon)
			if err != nil {
				return err
			}
			cmd, err := commands.NewRecordRiderLocationCommand(
				orderID, session.actorID, position,
				payload.AccuracyM, payload.BearingDeg, payload.SpeedMps,
				payload.CapturedAt,
			)
			if err != nil {
				return err
			}
			return s.commands.RecordLocation.Handle(ctx, cmd)
		})

	default:
		return errs.NewValueIsInvalidError("command")
	}
}

// handleSync answers a reconnection sync: snapshot frame first, then the
// missed events through the session's version gate.
func (s *Server) handleSync(ctx context.Context, session *Session, frame CommandFrame) error {
	orderID, err := parseUUID(frame.OrderID)
	if err != nil {
		return err
	}

	var payload syncPayload
	if err = unmarshalPayload(frame.Payload, &payload); err != nil {
		return err
	}

	query, err := queries.NewGetOrderChangesQuery(orderID, payload.SinceVersion)
	if err != nil {
		return err
	}

	response, err := s.changes.Handle(ctx, query)
	if err != nil {
		return err
	}

	snapshot, err := json.Marshal(newSnapshotFrame(response.Snapshot))
	if err != nil {
		return err
	}
	session.deliverRaw(snapshot)

	for _, event := range response.Events {
		session.deliverEvent(event)
	}
	return nil
}

func requireRole(session *Session, role kernel.Role) error {
	if session.role != role {
		return errRoleNotAllowed
	}
	return nil
}

func (s *Server) withOrderID(frame CommandFrame, fn func(kernel.UUID) error) error {
	orderID, err := parseUUID(frame.OrderID)
	if err != nil {
		return err
	}
	return fn(orderID)
}

func (s *Server) sendError(session *Session, frame CommandFrame, err error) {
	payload, marshalErr := json.Marshal(ErrorFrame{
		Event:   "error",
		Command: frame.Command,
		OrderID: frame.OrderID,
		Message: err.Error(),
	})
	if marshalErr != nil {
		return
	}
	session.deliverRaw(payload)

	s.logger.Debug("command rejected",
		"command", frame.Command,
		"role", session.role.String(),
		"error", err)
}

func unmarshalPayload(raw json.RawMessage, dst interface{}) error {
	if len(raw) == 0 {
		return errs.NewValueIsRequiredError("payload")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("payload", err)
	}
	return nil
}

func parseUUID(raw string) (kernel.UUID, error) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause("id", err)
	}
	return kernel.UUIDFromBytes(parsed[:])
}
