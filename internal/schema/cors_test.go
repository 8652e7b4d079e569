package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCorsOptionsJSON(t *testing.T) {
	t.Run("accepts string or list", func(t *testing.T) {
		input := `{
			"origin": "*",
			"methods": "GET",
			"allowedHeaders": ["Content-Type", "Authorization"],
			"credentials": true,
			"maxAge": 86400,
			"optionsSuccessStatus": 204
		}`
		var c CorsOptions
		require.NoError(t, json.Unmarshal([]byte(input), &c))

		assert.Equal(t, Origin{"*"}, c.Origin)
		assert.Equal(t, StringList{"GET"}, c.Methods)
		assert.Equal(t, StringList{"Content-Type", "Authorization"}, c.AllowedHeaders)
		assert.True(t, c.Credentials)
		assert.Equal(t, 86400, c.MaxAge)
		assert.Equal(t, 204, c.OptionsSuccessStatus)
	})

	t.Run("single origin is written as a string", func(t *testing.T) {
		data, err := json.Marshal(CorsOptions{Origin: Origin{"https://app.example.com"}, Methods: StringList{"GET"}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"origin":"https://app.example.com","methods":["GET"]}`, string(data))
	})

	t.Run("empty options encode as empty object", func(t *testing.T) {
		data, err := json.Marshal(CorsOptions{})
		require.NoError(t, err)
		assert.JSONEq(t, `{}`, string(data))
	})

	t.Run("rejects non string items", func(t *testing.T) {
		var c CorsOptions
		assert.Error(t, json.Unmarshal([]byte(`{"methods":[1,2]}`), &c))
	})
}

func TestCorsOptionsYAML(t *testing.T) {
	input := `
origin: [https://a.example.com, https://b.example.com]
methods: POST
`
	var c CorsOptions
	require.NoError(t, yaml.Unmarshal([]byte(input), &c))
	assert.Equal(t, Origin{"https://a.example.com", "https://b.example.com"}, c.Origin)
	assert.Equal(t, StringList{"POST"}, c.Methods)
}

func TestOriginAllows(t *testing.T) {
	assert.True(t, Origin{"*"}.Allows("https://x.example.com"))
	assert.True(t, Origin{"https://a.example.com"}.Allows("https://a.example.com"))
	assert.False(t, Origin{"https://a.example.com"}.Allows("https://b.example.com"))
	assert.False(t, Origin(nil).Allows("https://a.example.com"))
}

func TestCorsOptionsClone(t *testing.T) {
	c := CorsOptions{Origin: Origin{"*"}, Methods: StringList{"GET"}}
	cloned := c.Clone()
	cloned.Methods[0] = "PUT"
	assert.Equal(t, StringList{"GET"}, c.Methods)
}

func TestDefaultFeatures(t *testing.T) {
	f := DefaultFeatures()
	assert.Equal(t, 10, f.TestDataSeeding.RecordCount)
	assert.Equal(t, "en", f.TestDataSeeding.Locale)
	assert.Equal(t, "1.0.0", f.APIDocumentation.Version)
	assert.True(t, f.APIDocumentation.IncludeSwaggerUI)
	assert.Equal(t, "nodemailer", f.EmailAuth.Provider)
	assert.True(t, f.EmailAuth.Templates.Verification)
	assert.False(t, f.EmailAuth.Templates.Welcome)
	assert.Equal(t, "stripe", f.PaymentIntegration.Provider)

	cloned := f.Clone()
	cloned.OAuthProviders.CallbackURLs["github"] = "https://cb"
	assert.Empty(t, f.OAuthProviders.CallbackURLs)
}

func TestParseRelationKind(t *testing.T) {
	k, err := ParseRelationKind("one-to-many")
	require.NoError(t, err)
	assert.Equal(t, RelationOneToMany, k)

	k, err = ParseRelationKind("")
	require.NoError(t, err)
	assert.False(t, k.IsSet())

	_, err = ParseRelationKind("many-to-one")
	assert.Error(t, err)
}
