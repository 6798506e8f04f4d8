package domain

import (
	"crypto/rand"
	"io"
	"regexp"
	"time"
)

const (
	ticketPrefix   = "LC-"
	ticketAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	ticketSuffix   = 4

	// ticketUniform is the largest multiple of the alphabet size a byte can hold.
	ticketUniform = 256 - 256%len(ticketAlphabet)
)

var ticketPattern = regexp.MustCompile(`^LC-\d{8}-[A-Z0-9]{4}$`)

// IsTicketCode reports whether code has the LC-YYYYMMDD-XXXX shape.
func IsTicketCode(code string) bool {
	return ticketPattern.MatchString(code)
}

// TicketGenerator issues human-readable order codes.
type TicketGenerator struct {
	now     func() time.Time
	entropy io.Reader
}

// NewTicketGenerator uses the wall clock and crypto/rand.
func NewTicketGenerator() *TicketGenerator {
	return &TicketGenerator{now: time.Now, entropy: rand.Reader}
}

// WithClock overrides the time source for deterministic testing.
func (g *TicketGenerator) WithClock(now func() time.Time) *TicketGenerator {
	if now != nil {
		g.now = now
	}
	return g
}

// WithEntropy overrides the random source.
func (g *TicketGenerator) WithEntropy(r io.Reader) *TicketGenerator {
	if r != nil {
		g.entropy = r
	}
	return g
}

// Next returns a fresh code for the current day.
func (g *TicketGenerator) Next() (string, error) {
	suffix := make([]byte, 0, ticketSuffix)
	buf := make([]byte, ticketSuffix)
	for len(suffix) < ticketSuffix {
		chunk := buf[:ticketSuffix-len(suffix)]
		if _, err := io.ReadFull(g.entropy, chunk); err != nil {
			return "", err
		}
		for _, b := range chunk {
			// bytes past the last whole multiple of the alphabet would skew the draw
			if int(b) >= ticketUniform {
				continue
			}
			suffix = append(suffix, ticketAlphabet[int(b)%len(ticketAlphabet)])
		}
	}
	return ticketPrefix + g.now().Format("20060102") + "-" + string(suffix), nil
}
