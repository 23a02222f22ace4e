// Package mocks provides centralized mock implementations for testing.
//
// The store mocks keep their rows in memory and behave like the PostgreSQL
// stores for the cases handlers care about: missing rows, duplicate keys and
// referenced rows. Every method can be overridden through its Fn field.
//
// Usage:
//
//	import "github.com/ouvrages/livre-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    books := mocks.NewMockBookStore()
//	    books.GetByIDFn = func(ctx context.Context, id int64) (*domain.Book, error) {
//	        return nil, store.ErrBookNotFound
//	    }
//
//	    // Use the mock in your test...
//	}
package mocks
