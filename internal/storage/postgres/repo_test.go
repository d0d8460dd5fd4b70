package postgres

import (
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestSplitFQN(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want pgx.Identifier
	}{
		{"public.customers", pgx.Identifier{"public", "customers"}},
		{"customers", pgx.Identifier{"customers"}},
		{".customers", pgx.Identifier{"customers"}},
	}
	for _, c := range cases {
		if got := splitFQN(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("splitFQN(%q)=%v, want %v", c.in, got, c.want)
		}
	}
}
