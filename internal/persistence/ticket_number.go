package persistence

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-ticket-service/internal/repository"
)

const (
	ticketSeqPrefix = "ticket_seq:"
	// counters are only read on their own day; 48h leaves a margin for
	// clock skew before expiry reclaims them
	ticketSeqTTL = 48 * time.Hour
)

// TicketNumberGenerator produces date-prefixed sequential ticket numbers,
// e.g. 20250831-0001. Numbers are unique and immutable once assigned.
type TicketNumberGenerator interface {
	Next(ctx context.Context) (string, error)
}

type ticketNumberGenerator struct {
	redis   *Redis
	tickets repository.TicketRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewTicketNumberGenerator builds a generator backed by a daily Redis
// counter, falling back to a SQL count when Redis is unreachable.
func NewTicketNumberGenerator(redis *Redis, tickets repository.TicketRepository, logger *zap.Logger) TicketNumberGenerator {
	return &ticketNumberGenerator{
		redis:   redis,
		tickets: tickets,
		logger:  logger,
		now:     time.Now,
	}
}

func (g *ticketNumberGenerator) Next(ctx context.Context) (string, error) {
	day := g.now().UTC().Format("20060102")

	if g.redis != nil && g.redis.Client != nil {
		key := ticketSeqPrefix + day
		seq, err := g.redis.Client.Incr(ctx, key).Result()
		if err == nil {
			g.redis.Client.Expire(ctx, key, ticketSeqTTL)
			return fmt.Sprintf("%s-%04d", day, seq), nil
		}
		g.logger.Warn("redis ticket sequence unavailable, using sql fallback", zap.Error(err))
	}

	count, err := g.tickets.CountByNumberPrefix(ctx, day)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%04d", day, count+1), nil
}
