package echoapi

import (
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kazadi/ratiba/core"
	"github.com/kazadi/ratiba/core/user"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// ApplyToUsers sorts the result set in place; unknown fields are skipped.
func (ord *Ordering) ApplyToUsers(users []user.User) {
	for i := len(ord.Orderings) - 1; i >= 0; i-- {
		o := ord.Orderings[i]
		var less func(a, b user.User) bool
		switch o.Field {
		case "name":
			less = func(a, b user.User) bool { return a.Name < b.Name }
		case "username":
			less = func(a, b user.User) bool { return a.Username < b.Username }
		case "email":
			less = func(a, b user.User) bool { return a.Email < b.Email }
		case "created_at":
			less = func(a, b user.User) bool { return a.CreatedAt.Before(b.CreatedAt) }
		default:
			continue
		}
		if !o.Ascending {
			asc := less
			less = func(a, b user.User) bool { return asc(b, a) }
		}
		sort.SliceStable(users, func(i, j int) bool { return less(users[i], users[j]) })
	}
}
