package memory

import (
	"testing"

	"github.com/vrepo/vrepo/pkg/store"
	"github.com/vrepo/vrepo/pkg/store/storetest"
)

func TestMemoryPathStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.PathStore {
		return NewMemoryPathStore()
	})
}
