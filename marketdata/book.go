package marketdata

import (
	"fmt"
	"sort"

	"github.com/meenmo/ratecurve/handle"
	"github.com/meenmo/ratecurve/quote"
)

// Kind is the unit a quote is stored in.
type Kind int

const (
	// Rate is a decimal rate (0.045 for 4.5%).
	Rate Kind = iota
	// Spread is a decimal spread (-0.001 for -10bp).
	Spread
	// Price is a clean price per 100 face.
	Price
	// Factor is a multiplicative discount factor jump.
	Factor
)

func (k Kind) String() string {
	switch k {
	case Rate:
		return "rate"
	case Spread:
		return "spread"
	case Price:
		return "price"
	case Factor:
		return "factor"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Book owns the named quotes of a market. Helpers built from the same book share quotes, so a
// change through the book reaches every curve that depends on it.
type Book struct {
	quotes map[string]*quote.Quote
	kinds  map[string]Kind
}

func NewBook() *Book {
	return &Book{quotes: map[string]*quote.Quote{}, kinds: map[string]Kind{}}
}

// Add registers a quote. Adding an existing name returns the registered quote when the kind
// and value agree.
func (b *Book) Add(name string, kind Kind, value float64) (*quote.Quote, error) {
	if q, ok := b.quotes[name]; ok {
		v, _ := q.Value()
		if b.kinds[name] != kind || v != value {
			return nil, fmt.Errorf("Book.Add: quote %q already holds %s %g", name, b.kinds[name], v)
		}
		return q, nil
	}
	q := quote.New(name, value)
	b.quotes[name] = q
	b.kinds[name] = kind
	return q, nil
}

// Quote looks up a quote by name.
func (b *Book) Quote(name string) (*quote.Quote, bool) {
	q, ok := b.quotes[name]
	return q, ok
}

// Handle is a handle on a registered quote.
func (b *Book) Handle(name string) (handle.Handle[*quote.Quote], error) {
	q, ok := b.quotes[name]
	if !ok {
		return handle.Handle[*quote.Quote]{}, fmt.Errorf("Book.Handle: unknown quote %q", name)
	}
	return handle.New(q), nil
}

func (b *Book) Kind(name string) (Kind, bool) {
	k, ok := b.kinds[name]
	return k, ok
}

// Set changes a quote's value and notifies its observers when the value moved.
func (b *Book) Set(name string, value float64) error {
	q, ok := b.quotes[name]
	if !ok {
		return fmt.Errorf("Book.Set: unknown quote %q", name)
	}
	q.SetValue(value)
	return nil
}

// Bump shifts a quote by bp basis points. Prices move by bp hundredths of a point.
func (b *Book) Bump(name string, bp float64) (before, after float64, err error) {
	q, ok := b.quotes[name]
	if !ok {
		return 0, 0, fmt.Errorf("Book.Bump: unknown quote %q", name)
	}
	before, err = q.Value()
	if err != nil {
		return 0, 0, fmt.Errorf("Book.Bump: %w", err)
	}
	shift := bp * 1e-4
	if b.kinds[name] == Price {
		shift = bp * 1e-2
	}
	after = before + shift
	q.SetValue(after)
	return before, after, nil
}

// Names lists the registered quotes in name order.
func (b *Book) Names() []string {
	names := make([]string, 0, len(b.quotes))
	for name := range b.quotes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
