package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/ouvrages/livre-api/internal/api/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoutes_Table(t *testing.T) {
	routes := Handlers{}.Routes()

	seen := map[string]bool{}
	for _, route := range routes {
		key := route.Method + " " + route.Path
		assert.False(t, seen[key], "duplicate route %s", key)
		seen[key] = true
		assert.NotNil(t, route.Handler, key)
		assert.True(t, strings.HasPrefix(route.Path, "/"), key)
	}

	public := map[string]bool{
		"GET /livres":            true,
		"GET /livres/{id}/image": true,
		"GET /categories":        true,
		"GET /categories/{id}":   true,
		"POST /users":            true,
		"POST /login":            true,
	}
	for _, route := range routes {
		key := route.Method + " " + route.Path
		assert.Equal(t, !public[key], route.Secured, "security of %s", key)
	}

	var limited []string
	for _, route := range routes {
		if route.RateLimited {
			limited = append(limited, route.Method+" "+route.Path)
		}
	}
	assert.ElementsMatch(t, []string{"POST /users", "POST /login"}, limited)
}

func TestRoutes_MultipartOperations(t *testing.T) {
	for _, route := range (Handlers{}).Routes() {
		switch route.Method + " " + route.Path {
		case "POST /livres", "PUT /livres/{id}/image":
			assert.Equal(t, CoverFormField, route.Multipart)
		default:
			assert.Empty(t, route.Multipart, route.Path)
		}
	}
}

func TestOperations_BuildValidDocument(t *testing.T) {
	routes := Handlers{}.Routes()
	ops := Operations(routes)
	require.Len(t, ops, len(routes))

	doc, err := openapi.Build(openapi.Info{Title: "Livres API", Version: "1.0.0", ServerURL: "/api"}, ops)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	item := doc.Paths.Find("/appreciation/{idUtilisateur}/{idOuvrage}")
	require.NotNil(t, item)
	assert.NotNil(t, item.Get)
	assert.NotNil(t, item.Put)
	assert.NotNil(t, item.Delete)

	signup := doc.Paths.Find("/users").Post
	require.NotNil(t, signup)
	envelope := signup.Responses.Status(http.StatusOK).Value.Content.Get("application/json").Schema.Value
	assert.Contains(t, envelope.Properties, "token")
	user := envelope.Properties["data"].Value
	assert.Contains(t, user.Properties, "nomUtilisateur")
	assert.NotContains(t, user.Properties, "PasswordHash")
}

func TestRoutes_TextFiltersDescribedAsSubstring(t *testing.T) {
	filters := map[string]bool{"nom": true, "name": true, "titre": true}
	var checked int
	for _, route := range (Handlers{}).Routes() {
		for _, param := range route.Query {
			if !filters[param.Name] {
				continue
			}
			checked++
			assert.Contains(t, param.Description, "substring", "%s %s ?%s", route.Method, route.Path, param.Name)
		}
	}
	assert.Positive(t, checked)
}
