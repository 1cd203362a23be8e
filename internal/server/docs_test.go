package server

import (
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"campus-portal-backend/docs"
)

var ginParam = regexp.MustCompile(`:([A-Za-z]+)`)

func TestSwaggerDocumentsEveryAPIRoute(t *testing.T) {
	r, _ := newTestServer(t, 100)

	raw, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	require.Equal(t, "/api", doc.BasePath)

	documented := 0
	for _, route := range r.Routes() {
		if !strings.HasPrefix(route.Path, doc.BasePath+"/") {
			continue
		}
		path := ginParam.ReplaceAllString(strings.TrimPrefix(route.Path, doc.BasePath), "{$1}")
		methods, ok := doc.Paths[path]
		if !assert.True(t, ok, "path %s missing from swagger doc", path) {
			continue
		}
		_, ok = methods[strings.ToLower(route.Method)]
		assert.True(t, ok, "%s %s missing from swagger doc", route.Method, path)
		documented++
	}
	assert.Equal(t, 25, documented)
}
