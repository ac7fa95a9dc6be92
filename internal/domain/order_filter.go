package domain

import (
	"fmt"
	"strings"
)

const defaultOrderLimit = 50

// OrderFilter has AND semantics across fields, OR semantics within each
// field slice. A zero filter matches all orders.
type OrderFilter struct {
	Statuses       []OrderStatus
	CustomerEmails []string
	Limit          int
}

func (f OrderFilter) Validate() error {
	if f.Limit < 0 {
		return fmt.Errorf("limit is negative: %d", f.Limit)
	}

	for _, status := range f.Statuses {
		if _, err := ToOrderStatus(string(status)); err != nil {
			return fmt.Errorf("status[%s]: %w", status, err)
		}
	}

	return nil
}

// Normalized lowercases the email terms and applies the default limit,
// matching how customer emails are stored.
func (f OrderFilter) Normalized() OrderFilter {
	out := f

	out.CustomerEmails = make([]string, 0, len(f.CustomerEmails))
	for _, email := range f.CustomerEmails {
		out.CustomerEmails = append(out.CustomerEmails, strings.ToLower(strings.TrimSpace(email)))
	}

	if out.Limit == 0 {
		out.Limit = defaultOrderLimit
	}

	return out
}
