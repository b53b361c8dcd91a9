package detail

import (
	"html/template"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/require"

	"github.com/circuitfolio/folio/internal/catalog"
)

func fixtureStore(t *testing.T) *catalog.Store {
	t.Helper()

	store, err := catalog.NewStore(
		[]catalog.Project{
			{
				ID:           "Ibex",
				Title:        "Master Project: RTL-to-GDSII Implementation of Ibex Core",
				Category:     catalog.CategoryDesign,
				Description:  template.HTML("<p>Overview <script>alert(1)</script><strong>text</strong></p>"),
				Organization: "Universität Bremen",
				Completed:    "August 26, 2025",
				Duration:     "6 months",
				Technologies: []string{"Cadence Genus", "SystemVerilog"},
				Features:     []string{"first", "second", "third"},
				Challenges:   []string{"timing"},
				Results:      []string{"500 MHz", "0.032 mm²"},
				Links:        catalog.Links{Document: "documents/ibex.pdf"},
			},
			{
				ID:       "Full",
				Title:    "Every <link>",
				Category: catalog.CategoryUniversity,
				Links: catalog.Links{
					Live:     "https://example.org/demo",
					Source:   "https://example.org/src",
					Document: "documents/full.pdf",
					Video:    "videos/full.mp4",
				},
			},
		},
		[]catalog.Article{
			{
				ID:        "ns-sar-adc",
				Title:     "Noise-Shaping SAR ADC",
				Category:  catalog.CategoryMixedSignalDesign,
				Published: "May 20, 2024",
				ReadTime:  "8 min read",
				Author:    "Jane Doe",
				Abstract:  "A 14-bit converter.",
				Content:   template.HTML(`<h2 id="architecture">Architecture</h2><p onclick="x()">Body</p>`),
			},
		},
	)
	require.NoError(t, err)
	return store
}

func parseFragment(t *testing.T, f Fragment) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(f.String()))
	require.NoError(t, err)
	return doc
}

func blocks(doc *goquery.Document) []string {
	var out []string
	doc.Find("[data-block]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("data-block")
		out = append(out, name)
	})
	return out
}

func TestProjectRenderBlockOrder(t *testing.T) {
	t.Parallel()

	r := NewProjectRenderer(fixtureStore(t).Projects)
	frag, err := r.Render("Ibex")
	require.NoError(t, err)
	require.Equal(t, "project", frag.Kind)
	require.Equal(t, "Ibex", frag.ID)

	doc := parseFragment(t, frag)
	require.Equal(t,
		[]string{"header", "overview", "features", "technologies", "challenges", "results", "actions"},
		blocks(doc))

	require.Equal(t, "Design", doc.Find(".project-badge").Text())
	require.Equal(t, "Master Project: RTL-to-GDSII Implementation of Ibex Core", doc.Find("h1").Text())
	require.Equal(t, 3, doc.Find(".meta-card").Length())
	require.Contains(t, doc.Find(".meta-card").First().Text(), "Universität Bremen")

	var numbers []string
	doc.Find(".feature-number").Each(func(_ int, s *goquery.Selection) { numbers = append(numbers, s.Text()) })
	require.Equal(t, []string{"1", "2", "3"}, numbers)
	require.Equal(t, 2, doc.Find(".tech-tag").Length())
	require.Equal(t, 1, doc.Find(".challenge-item").Length())
	require.Equal(t, 2, doc.Find(".result-item").Length())
}

func TestProjectRenderIbexScenario(t *testing.T) {
	t.Parallel()

	frag, err := NewProjectRenderer(fixtureStore(t).Projects).Render("Ibex")
	require.NoError(t, err)

	links := parseFragment(t, frag).Find(`[data-block="actions"] a`)
	require.Equal(t, 1, links.Length())
	href, _ := links.Attr("href")
	require.Equal(t, "documents/ibex.pdf", href)
	kind, _ := links.Attr("data-link")
	require.Equal(t, LinkDocument, kind)
	require.Zero(t, parseFragment(t, frag).Find(`a[data-link="live"], a[data-link="source"]`).Length())
}

func TestProjectRenderAllLinksInOrder(t *testing.T) {
	t.Parallel()

	frag, err := NewProjectRenderer(fixtureStore(t).Projects).Render("Full")
	require.NoError(t, err)

	var kinds []string
	parseFragment(t, frag).Find(`[data-block="actions"] a`).Each(func(_ int, s *goquery.Selection) {
		k, _ := s.Attr("data-link")
		kinds = append(kinds, k)
	})
	require.Equal(t, []string{LinkLive, LinkSource, LinkDocument, LinkVideo}, kinds)
}

func TestActionsOmitEmptyLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		links catalog.Links
		want  []string
	}{
		{name: "none", links: catalog.Links{}, want: nil},
		{name: "source empty", links: catalog.Links{Live: "l", Document: "d"}, want: []string{LinkLive, LinkDocument}},
		{name: "video only", links: catalog.Links{Video: "v"}, want: []string{LinkVideo}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var got []string
			for _, a := range actions(tc.links) {
				require.NotEmpty(t, a.Href)
				got = append(got, a.Kind)
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestRenderIsPure(t *testing.T) {
	t.Parallel()

	store := fixtureStore(t)
	pr := NewProjectRenderer(store.Projects)
	first, err := pr.Render("Ibex")
	require.NoError(t, err)
	second, err := pr.Render("Ibex")
	require.NoError(t, err)
	require.Equal(t, first, second)

	ar := NewArticleRenderer(store.Articles)
	a1, err := ar.Render("ns-sar-adc")
	require.NoError(t, err)
	a2, err := ar.Render("ns-sar-adc")
	require.NoError(t, err)
	require.Equal(t, a1, a2)
}

func TestRenderNotFound(t *testing.T) {
	t.Parallel()

	store := fixtureStore(t)
	_, err := NewProjectRenderer(store.Projects).Render("Missing")
	require.ErrorIs(t, err, catalog.ErrRecordNotFound)

	_, err = NewArticleRenderer(store.Articles).Render("")
	require.ErrorIs(t, err, catalog.ErrRecordNotFound)

	_, err = NewArticleRenderer(nil).Render("ns-sar-adc")
	require.ErrorIs(t, err, catalog.ErrRecordNotFound)
}

func TestRenderEscapesAndSanitizes(t *testing.T) {
	t.Parallel()

	store := fixtureStore(t)

	frag, err := NewProjectRenderer(store.Projects).Render("Ibex")
	require.NoError(t, err)
	require.NotContains(t, frag.String(), "<script>")
	require.Contains(t, frag.String(), "<strong>text</strong>")

	full, err := NewProjectRenderer(store.Projects).Render("Full")
	require.NoError(t, err)
	require.Contains(t, full.String(), "Every &lt;link&gt;")

	article, err := NewArticleRenderer(store.Articles).Render("ns-sar-adc")
	require.NoError(t, err)
	require.NotContains(t, article.String(), "onclick")
}

func TestRenderWithPolicy(t *testing.T) {
	t.Parallel()

	store := fixtureStore(t)
	strict := WithPolicy(bluemonday.StrictPolicy())

	frag, err := NewProjectRenderer(store.Projects, strict).Render("Ibex")
	require.NoError(t, err)
	require.NotContains(t, frag.String(), "<strong>")
	require.Contains(t, frag.String(), "text")

	article, err := NewArticleRenderer(store.Articles, strict).Render("ns-sar-adc")
	require.NoError(t, err)
	require.NotContains(t, article.String(), `id="architecture"`)
	require.Contains(t, article.String(), "Architecture")
}

func TestArticleRender(t *testing.T) {
	t.Parallel()

	frag, err := NewArticleRenderer(fixtureStore(t).Articles).Render("ns-sar-adc")
	require.NoError(t, err)
	require.Equal(t, "article", frag.Kind)

	doc := parseFragment(t, frag)
	require.Equal(t, []string{"header", "abstract", "content"}, blocks(doc))
	require.Equal(t, "Mixed-Signal Design", doc.Find(".article-badge").Text())
	require.Contains(t, doc.Find(".article-meta").Text(), "8 min read")
	require.Contains(t, doc.Find(".authors").Text(), "Jane Doe")
	require.Equal(t, 1, doc.Find(`.article-content h2#architecture`).Length())
}
