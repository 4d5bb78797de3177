package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppContextBanner(t *testing.T) {
	var nilCtx *AppContext
	assert.Equal(t, "Duplex dev", nilCtx.Banner())
	assert.Equal(t, "Duplex dev", (&AppContext{}).Banner())
	assert.Equal(t, "Duplex 1.2.0", (&AppContext{Version: "1.2.0"}).Banner())
	assert.Equal(t, "dup 0.1", (&AppContext{Name: "dup", Version: "0.1"}).Banner())
}
