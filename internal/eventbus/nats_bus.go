package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"

	nats "github.com/nats-io/nats.go"
)

// DefaultSubjectPrefix префикс subject: <prefix>.<EventType>
const DefaultSubjectPrefix = "voxel.events"

// NATSBus реализует EventBus поверх core NATS: события мира носят характер
// уведомлений, повторная доставка после рестарта им не нужна.
type NATSBus struct {
	nc        *nats.Conn
	prefix    string
	published atomic.Uint64
	consumed  atomic.Uint64
	dropped   atomic.Uint64
}

// NewNATSBus подключается к серверу NATS, url вида nats://127.0.0.1:4222.
func NewNATSBus(url, prefix string) (*NATSBus, error) {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	prefix = strings.TrimSuffix(prefix, ".")

	nc, err := nats.Connect(url, nats.Name("voxel-terrain"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSBus{nc: nc, prefix: prefix}, nil
}

func (nb *NATSBus) subject(eventType string) string {
	return nb.prefix + "." + eventType
}

// Publish сериализует Envelope в JSON и публикует в subject <prefix>.<type>.
func (nb *NATSBus) Publish(ctx context.Context, ev *Envelope) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := nb.nc.Publish(nb.subject(ev.EventType), data); err != nil {
		nb.dropped.Add(1)
		return fmt.Errorf("nats publish: %w", err)
	}
	nb.published.Add(1)
	return nil
}

// Subscribe подписывается на один тип или на все (<prefix>.*).
// Фильтр по нескольким типам применяется на стороне клиента.
func (nb *NATSBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	subj := nb.prefix + ".*"
	if len(f.Types) == 1 {
		subj = nb.subject(f.Types[0])
	}

	natSub, err := nb.nc.Subscribe(subj, func(msg *nats.Msg) {
		var ev Envelope
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			nb.dropped.Add(1)
			return
		}
		if !f.match(&ev) {
			return
		}
		h(ctx, &ev)
		nb.consumed.Add(1)
	})
	if err != nil {
		return nil, fmt.Errorf("nats subscribe: %w", err)
	}
	return &natsSub{natSub}, nil
}

// natsSub обёртка вокруг *nats.Subscription чтобы удовлетворить наш интерфейс.
type natsSub struct {
	s *nats.Subscription
}

func (n *natsSub) Unsubscribe() {
	_ = n.s.Unsubscribe()
}

// Metrics возвращает текущие метрики.
func (nb *NATSBus) Metrics() Stats {
	return Stats{
		Published: nb.published.Load(),
		Consumed:  nb.consumed.Load(),
		Dropped:   nb.dropped.Load(),
	}
}

// Close доотправляет буфер клиента и закрывает соединение
func (nb *NATSBus) Close() error {
	return nb.nc.Drain()
}
