package inspect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pagewatch/internal/inspect"
)

const fullPage = `<!DOCTYPE html>
<html>
<head>
	<title>Example Domain</title>
	<meta name="description" content="An example page.">
</head>
<body>
	<h1>Welcome</h1>
	<h1>Second heading is ignored</h1>
	<p>body text</p>
</body>
</html>`

func TestInspectExtractsAllSignals(t *testing.T) {
	t.Parallel()

	signals := inspect.Inspect([]byte(fullPage))

	assert.True(t, signals.Title.Valid)
	assert.Equal(t, "Example Domain", signals.Title.String)
	assert.True(t, signals.Heading.Valid)
	assert.Equal(t, "Welcome", signals.Heading.String)
	assert.True(t, signals.Description.Valid)
	assert.Equal(t, "An example page.", signals.Description.String)
}

func TestInspectMissingElementsAreAbsent(t *testing.T) {
	t.Parallel()

	signals := inspect.Inspect([]byte(`<html><head><title>Only Title</title></head><body><p>hi</p></body></html>`))

	assert.True(t, signals.Title.Valid)
	assert.Equal(t, "Only Title", signals.Title.String)
	assert.False(t, signals.Heading.Valid)
	assert.False(t, signals.Description.Valid)
}

func TestInspectEmptyDescriptionIsPresentButEmpty(t *testing.T) {
	t.Parallel()

	signals := inspect.Inspect([]byte(`<head><meta name="description" content=""></head>`))

	assert.True(t, signals.Description.Valid)
	assert.Equal(t, "", signals.Description.String)
}

func TestInspectDescriptionWithoutContentAttrIsAbsent(t *testing.T) {
	t.Parallel()

	signals := inspect.Inspect([]byte(`<head><meta name="description"></head>`))

	assert.False(t, signals.Description.Valid)
}

func TestInspectMalformedHTMLDoesNotFail(t *testing.T) {
	t.Parallel()

	signals := inspect.Inspect([]byte(`<h1>Unclosed <b>heading<title>Late Title`))

	assert.True(t, signals.Heading.Valid)
	assert.False(t, signals.Description.Valid)
}

func TestInspectNonHTMLYieldsNothing(t *testing.T) {
	t.Parallel()

	signals := inspect.Inspect([]byte(`{"json": true}`))

	assert.False(t, signals.Title.Valid)
	assert.False(t, signals.Heading.Valid)
	assert.False(t, signals.Description.Valid)
}

func TestInspectTrimsWhitespace(t *testing.T) {
	t.Parallel()

	signals := inspect.Inspect([]byte("<title>\n  Padded Title \n</title><h1>\t Heading </h1>"))

	assert.Equal(t, "Padded Title", signals.Title.String)
	assert.Equal(t, "Heading", signals.Heading.String)
}
