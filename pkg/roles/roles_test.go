package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, Admin.HasPermission(Warehouse))
	assert.True(t, Warehouse.HasPermission(Personnel))
	assert.True(t, Warehouse.HasPermission(Warehouse))
	assert.False(t, Personnel.HasPermission(Warehouse))
	assert.False(t, Warehouse.HasPermission(Admin))
}

func TestIsValid(t *testing.T) {
	assert.True(t, Personnel.IsValid())
	assert.True(t, Warehouse.IsValid())
	assert.True(t, Admin.IsValid())
	assert.False(t, Role("almacenero").IsValid())
	assert.False(t, Role("").IsValid())
}
