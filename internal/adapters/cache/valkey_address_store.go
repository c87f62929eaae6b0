package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/platform/obs"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

const addressKeyPrefix = "address:"

// ValkeyAddressStore stores addresses as JSON values under address:<title>.
// SET NX is the insert-if-absent primitive; keys never expire.
type ValkeyAddressStore struct {
	client valkey.Client
}

type addressRecord struct {
	Title       string    `json:"title"`
	Lon         *float64  `json:"lon,omitempty"`
	Lat         *float64  `json:"lat,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewValkeyAddressStore connects to a Valkey (Redis-compatible) server.
func NewValkeyAddressStore(addr string) (*ValkeyAddressStore, error) {
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("valkey connect: %w", err)
	}
	return &ValkeyAddressStore{client: client}, nil
}

func (s *ValkeyAddressStore) GetMany(
	ctx context.Context,
	titles []string,
) (_ map[string]domain.Address, err error) {
	defer obs.Time(ctx, "address.valkey.GetMany")(&err)

	uniq := uniqueTitles(titles)
	if len(uniq) == 0 {
		return map[string]domain.Address{}, nil
	}

	keys := make([]string, 0, len(uniq))
	for _, t := range uniq {
		keys = append(keys, addressKeyPrefix+t)
	}

	msgs, err := s.client.Do(ctx, s.client.B().Mget().Key(keys...).Build()).ToArray()
	if err != nil {
		return nil, fmt.Errorf("get addresses: mget: %w", err)
	}

	out := make(map[string]domain.Address, len(uniq))
	for i, msg := range msgs {
		raw, err := msg.ToString()
		if valkey.IsValkeyNil(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get addresses: read %q: %w", uniq[i], err)
		}

		var rec addressRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("get addresses: decode %q: %w", uniq[i], err)
		}
		out[rec.Title] = rec.toDomain()
	}

	return out, nil
}

func (s *ValkeyAddressStore) InsertMany(
	ctx context.Context,
	addrs []domain.Address,
) (_ map[string]domain.Address, err error) {
	defer obs.Time(ctx, "address.valkey.InsertMany")(&err)

	if len(addrs) == 0 {
		return map[string]domain.Address{}, nil
	}

	titles := make([]string, 0, len(addrs))
	cmds := make(valkey.Commands, 0, len(addrs))
	for _, a := range addrs {
		title := strings.TrimSpace(a.Title)
		if title == "" {
			return nil, errors.New("insert addresses: empty title")
		}
		titles = append(titles, title)

		a.Title = title
		if a.RequestedAt.IsZero() {
			a.RequestedAt = time.Now().UTC()
		}
		b, err := json.Marshal(newAddressRecord(a))
		if err != nil {
			return nil, fmt.Errorf("insert addresses: encode %q: %w", title, err)
		}
		cmds = append(cmds, s.client.B().Set().Key(addressKeyPrefix+title).Value(string(b)).Nx().Build())
	}

	for i, resp := range s.client.DoMulti(ctx, cmds...) {
		err := resp.Error()
		switch {
		case valkey.IsValkeyNil(err):
			obs.AddressInserts.WithLabelValues("existing").Inc()
		case err != nil:
			return nil, fmt.Errorf("insert addresses title=%q: %w", titles[i], err)
		default:
			obs.AddressInserts.WithLabelValues("inserted").Inc()
		}
	}

	return s.GetMany(ctx, titles)
}

// Close releases the client.
func (s *ValkeyAddressStore) Close() {
	s.client.Close()
}

func newAddressRecord(a domain.Address) addressRecord {
	rec := addressRecord{Title: a.Title, RequestedAt: a.RequestedAt}
	if a.Coords != nil {
		lon, lat := a.Coords.Lon, a.Coords.Lat
		rec.Lon, rec.Lat = &lon, &lat
	}
	return rec
}

func (r addressRecord) toDomain() domain.Address {
	a := domain.Address{Title: r.Title, RequestedAt: r.RequestedAt}
	if r.Lon != nil && r.Lat != nil {
		a.Coords = &domain.Coordinates{Lon: *r.Lon, Lat: *r.Lat}
	}
	return a
}
