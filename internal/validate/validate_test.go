package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const creaturesSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["creatures"],
  "properties": {
    "creatures": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "kind"],
        "properties": {
          "name": {"type": "string"},
          "kind": {"enum": ["dragon", "troll", "elf"]},
          "legs": {"type": "integer", "minimum": 0}
        }
      }
    }
  }
}`

const booksXSD = `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:element name="library">
    <xs:complexType>
      <xs:sequence>
        <xs:element name="book" maxOccurs="unbounded">
          <xs:complexType>
            <xs:sequence>
              <xs:element name="title" type="xs:string"/>
              <xs:element name="year" type="xs:integer"/>
            </xs:sequence>
          </xs:complexType>
        </xs:element>
      </xs:sequence>
    </xs:complexType>
  </xs:element>
</xs:schema>`

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValidateJSON(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "schema.json", creaturesSchema)

	t.Run("valid", func(t *testing.T) {
		doc := write(t, dir, "valid.json", `{"creatures":[{"name":"Smaug","kind":"dragon","legs":4}]}`)
		res, err := ValidateJSON(doc, schema)
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Empty(t, res.Problems)
		assert.Contains(t, res.Summary(), "is valid")
	})

	t.Run("enum out of range", func(t *testing.T) {
		doc := write(t, dir, "enum.json", `{"creatures":[{"name":"Bob","kind":"goblin"}]}`)
		res, err := ValidateJSON(doc, schema)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		require.Len(t, res.Problems, 1)
		assert.Equal(t, "/creatures/0/kind", res.Problems[0].Location)
		assert.Contains(t, res.Problems[0].Message, "value must be one of")
	})

	t.Run("required property missing", func(t *testing.T) {
		doc := write(t, dir, "required.json", `{"creatures":[{"kind":"elf"}]}`)
		res, err := ValidateJSON(doc, schema)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		require.Len(t, res.Problems, 1)
		assert.Equal(t, "/creatures/0", res.Problems[0].Location)
		assert.Contains(t, res.Problems[0].Message, "missing properties")
		assert.Contains(t, res.Summary(), "❌")
	})

	t.Run("several problems", func(t *testing.T) {
		doc := write(t, dir, "many.json", `{"creatures":[{"name":1,"kind":"elf","legs":-1}]}`)
		res, err := ValidateJSON(doc, schema)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Len(t, res.Problems, 2)
	})

	t.Run("malformed document", func(t *testing.T) {
		doc := write(t, dir, "broken.json", `{"creatures": [`)
		res, err := ValidateJSON(doc, schema)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Problems[0].Message, "malformed JSON")
	})

	t.Run("trailing content", func(t *testing.T) {
		obj := write(t, dir, "object.json", `{"type":"object"}`)
		for name, content := range map[string]string{
			"text.json":   `{"a":1} this is not json`,
			"second.json": `{"a":1} {"b":2}`,
		} {
			res, err := ValidateJSON(write(t, dir, name, content), obj)
			require.NoError(t, err)
			assert.False(t, res.Valid, name)
			require.Len(t, res.Problems, 1)
			assert.Contains(t, res.Problems[0].Message, "malformed JSON")
		}
	})

	t.Run("trailing whitespace", func(t *testing.T) {
		doc := write(t, dir, "newline.json", "{\"creatures\":[]}\n\n")
		res, err := ValidateJSON(doc, schema)
		require.NoError(t, err)
		assert.True(t, res.Valid)
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := ValidateJSON(filepath.Join(dir, "nope.json"), schema)
		assert.Error(t, err)
	})

	t.Run("broken schema", func(t *testing.T) {
		bad := write(t, dir, "bad-schema.json", `{"type": 12}`)
		doc := write(t, dir, "any.json", `{}`)
		_, err := ValidateJSON(doc, bad)
		assert.Error(t, err)
	})
}

func TestLoadCompiledSchema_IsCached(t *testing.T) {
	dir := t.TempDir()
	schema := write(t, dir, "schema.json", creaturesSchema)

	first, err := loadCompiledSchema(schema)
	require.NoError(t, err)

	rel, err := filepath.Rel(mustGetwd(t), schema)
	if err != nil {
		rel = schema
	}
	second, err := loadCompiledSchema(rel)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func mustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	return wd
}

func TestValidateXML(t *testing.T) {
	dir := t.TempDir()
	xsdPath := write(t, dir, "books.xsd", booksXSD)

	t.Run("valid", func(t *testing.T) {
		doc := write(t, dir, "books.xml", `<library><book><title>Dune</title><year>1965</year></book></library>`)
		res, err := ValidateXML(doc, xsdPath)
		require.NoError(t, err)
		assert.True(t, res.Valid)
	})

	t.Run("wrong type", func(t *testing.T) {
		doc := write(t, dir, "bad-year.xml", `<library><book><title>Dune</title><year>soon</year></book></library>`)
		res, err := ValidateXML(doc, xsdPath)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		require.NotEmpty(t, res.Problems)
		assert.Contains(t, res.Problems[0].Message, "year")
	})

	t.Run("malformed document", func(t *testing.T) {
		doc := write(t, dir, "broken.xml", `<library><book>`)
		res, err := ValidateXML(doc, xsdPath)
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Contains(t, res.Problems[0].Message, "malformed XML")
	})

	t.Run("relative include", func(t *testing.T) {
		sub := filepath.Join(dir, "schemas")
		require.NoError(t, os.MkdirAll(sub, 0o755))
		write(t, sub, "types.xsd", `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:simpleType name="yearType">
    <xs:restriction base="xs:integer"/>
  </xs:simpleType>
</xs:schema>`)
		shelf := write(t, sub, "shelf.xsd", `<?xml version="1.0" encoding="UTF-8"?>
<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">
  <xs:include schemaLocation="types.xsd"/>
  <xs:element name="year" type="yearType"/>
</xs:schema>`)

		res, err := ValidateXML(write(t, dir, "year.xml", `<year>1965</year>`), shelf)
		require.NoError(t, err)
		assert.True(t, res.Valid)

		res, err = ValidateXML(write(t, dir, "bad-shelf.xml", `<year>soon</year>`), shelf)
		require.NoError(t, err)
		assert.False(t, res.Valid)
	})

	t.Run("missing schema", func(t *testing.T) {
		doc := write(t, dir, "x.xml", `<library/>`)
		_, err := ValidateXML(doc, filepath.Join(dir, "nope.xsd"))
		assert.Error(t, err)
	})
}
