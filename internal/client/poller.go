package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	inhttp "khabarlagbe/internal/adapters/in/http"
	"khabarlagbe/internal/core/domain/model/kernel"
	"khabarlagbe/internal/core/domain/model/order"
	"khabarlagbe/internal/pkg/errs"
)

// Poller fetches order deltas over REST while the channel is down. It hits
// the same changes endpoint the ws sync command uses, so the merge semantics
// are identical on both paths.
type Poller struct {
	baseURL string
	client  *http.Client
}

// NewPoller creates a fallback poller against the REST base URL,
// e.g. http://host:8080.
func NewPoller(baseURL string, client *http.Client) *Poller {
	if client == nil {
		client = http.DefaultClient
	}
	return &Poller{baseURL: baseURL, client: client}
}

// FetchChanges retrieves the authoritative snapshot for one order. The
// since_version cursor only trims the response's event list; the snapshot
// is complete either way, which is what the reconciler merges.
func (p *Poller) FetchChanges(ctx context.Context, orderID kernel.UUID, sinceVersion int64) (order.Snapshot, error) {
	endpoint := p.baseURL + "/api/v1/orders/" + orderID.String() +
		"/changes?since_version=" + strconv.FormatInt(sinceVersion, 10)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return order.Snapshot{}, err
	}

	response, err := p.client.Do(request)
	if err != nil {
		return order.Snapshot{}, err
	}
	defer response.Body.Close()

	switch response.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return order.Snapshot{}, errs.NewObjectNotFoundError("order", orderID)
	default:
		return order.Snapshot{}, fmt.Errorf("changes request failed with status %d", response.StatusCode)
	}

	var body inhttp.OrderChangesResponse
	if err = json.NewDecoder(response.Body).Decode(&body); err != nil {
		return order.Snapshot{}, err
	}
	return snapshotFromBody(body.Order)
}

func snapshotFromBody(body inhttp.OrderResponse) (order.Snapshot, error) {
	orderID, err := idFromString(body.OrderID)
	if err != nil {
		return order.Snapshot{}, err
	}
	status, err := order.StatusFromString(body.Status)
	if err != nil {
		return order.Snapshot{}, err
	}

	snap := order.Snapshot{
		ID:                  orderID,
		Status:              status,
		Version:             body.Version,
		EstimatedPrepMin:    body.EstimatedPrepMin,
		NeedsManualDispatch: body.NeedsManualDispatch,
		Timeline:            make([]order.TimelineEntry, 0, len(body.Timeline)),
	}
	if body.RiderID != "" {
		riderID, err := idFromString(body.RiderID)
		if err != nil {
			return order.Snapshot{}, err
		}
		snap.RiderID = &riderID
	}

	for _, entry := range body.Timeline {
		converted, err := timelineEntryFromWire(entry.Status, entry.Actor, entry.Note, entry.Kind, entry.At)
		if err != nil {
			return order.Snapshot{}, err
		}
		snap.Timeline = append(snap.Timeline, converted)
	}
	return snap, nil
}
