package shutdown

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"histoenhance/internal/logger"
)

type recorder struct {
	name  string
	order *[]string
}

func (r recorder) Shutdown() {
	*r.order = append(*r.order, r.name)
}

func TestShutdownReverseOrder(t *testing.T) {
	m := NewManager(logger.Nop())
	var order []string
	m.Register(recorder{"first", &order})
	m.Register(recorder{"second", &order})

	m.Shutdown()
	m.Shutdown()

	assert.Equal(t, []string{"second", "first"}, order)
	assert.Error(t, m.Context().Err())

	select {
	case <-m.Done():
	default:
		t.Fatal("done channel not closed")
	}
}
