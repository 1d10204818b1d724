package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storageBody = `<h1>Title &amp; more</h1>
<ac:layout>
  <ac:layout-section ac:type="two_equal">
    <ac:layout-cell>
      <h3 class="x">  Design
        notes </h3>
      <p>Line<br>break<br/>done&nbsp;</p>
      <ac:link><ri:page ri:content-title="Other" /></ac:link>
    </ac:layout-cell>
    <ac:layout-cell>
      <ac:structured-macro ac:name="code"><ac:plain-text-body><![CDATA[if a < b { return }]]></ac:plain-text-body></ac:structured-macro>
      <!-- note -->
    </ac:layout-cell>
  </ac:layout-section>
  <ac:layout-section ac:type="single"><ac:layout-cell><H2>Upper</H2></ac:layout-cell></ac:layout-section>
</ac:layout>
</div>
<p>unclosed`

func TestParse_RoundTripIsByteStable(t *testing.T) {
	doc, err := Parse(storageBody)
	require.NoError(t, err)

	first := doc.Render()
	assert.Equal(t, storageBody, first)

	again, err := Parse(first)
	require.NoError(t, err)
	assert.Equal(t, first, again.Render())
}

func TestParse_ReadsLayoutStructure(t *testing.T) {
	doc, err := Parse(storageBody)
	require.NoError(t, err)
	require.True(t, doc.HasLayout())

	sections := doc.Sections()
	require.Len(t, sections, 2)
	assert.Equal(t, LayoutTwoEqual, sections[0].Layout)
	assert.Len(t, sections[0].Cells, 2)
	assert.Equal(t, LayoutSingle, sections[1].Layout)

	assert.Equal(t, []string{"Design notes", "Upper"}, doc.Headings())
}

func TestParse_SelfClosingElementsDoNotSwallowSiblings(t *testing.T) {
	nodes, err := parseNodes(`<ac:link><ri:page ri:content-title="Other" /></ac:link><p>after</p>`)
	require.NoError(t, err)
	require.Len(t, nodes, 2)

	link := nodes[0]
	require.Len(t, link.Children, 1)
	page := link.Children[0]
	assert.True(t, page.SelfClosing)
	assert.Equal(t, "Other", page.AttrVal("ri:content-title"))
	assert.True(t, nodes[1].isElement("p"))
}

func TestParse_CDATAIsText(t *testing.T) {
	nodes, err := parseNodes(`<ac:plain-text-body><![CDATA[if a < b { return }]]></ac:plain-text-body>`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	assert.Equal(t, "if a < b { return }", nodes[0].TextContent())
	assert.Equal(t, `<ac:plain-text-body><![CDATA[if a < b { return }]]></ac:plain-text-body>`, nodes[0].Markup())
}

func TestParse_StrayEndTagIsKept(t *testing.T) {
	nodes, err := parseNodes(`<p>a</span>b</p>`)
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	p := nodes[0]
	require.Len(t, p.Children, 3)
	assert.Equal(t, StrayNode, p.Children[1].Type)
	assert.Equal(t, "ab", p.TextContent())
	assert.Equal(t, `<p>a</span>b</p>`, renderNodes(nodes))
}

func TestParse_OnlyTopLevelLayoutCounts(t *testing.T) {
	doc, err := Parse(`<div><ac:layout>` + sectionWithHeading("Nested") + `</ac:layout></div>`)
	require.NoError(t, err)

	assert.False(t, doc.HasLayout())
	assert.Empty(t, doc.Sections())
}

func TestNode_MarkupOfBuiltElements(t *testing.T) {
	br := newElement("br")
	img := newElement("ri:attachment")
	img.SelfClosing = true
	p := newElement("p")
	p.appendChild(newText("x < y"), br, img)

	assert.Equal(t, `<p>x &lt; y<br><ri:attachment /></p>`, p.Markup())
}
