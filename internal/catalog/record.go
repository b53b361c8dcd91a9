package catalog

import (
	"html/template"
	"slices"
)

// Category is the enumerated label shared by records and filter controls.
type Category string

const (
	CategoryDesign     Category = "Design"
	CategoryUniversity Category = "University"

	CategoryASICDesign        Category = "ASIC Design"
	CategoryMixedSignalDesign Category = "Mixed-Signal Design"
	CategoryPowerElectronics  Category = "Power Electronics"
)

// ProjectCategories is the canonical set of categories a project may carry.
var ProjectCategories = []Category{CategoryDesign, CategoryUniversity}

// ArticleCategories is the canonical set of categories an article may carry.
var ArticleCategories = []Category{CategoryASICDesign, CategoryMixedSignalDesign, CategoryPowerElectronics}

// Record is implemented by every catalog entry.
type Record interface {
	Key() string
	Kind() string
}

// Links holds the optional outbound links of a project. Empty fields mean "no link".
type Links struct {
	Live     string
	Source   string
	Document string
	Video    string
}

// Project is a portfolio project.
type Project struct {
	ID           string
	Title        string
	Category     Category
	Summary      string
	Description  template.HTML
	Organization string
	Completed    string
	Duration     string
	Technologies []string
	Features     []string
	Challenges   []string
	Results      []string
	Links        Links
}

func (p Project) Key() string  { return p.ID }
func (p Project) Kind() string { return "project" }

// Clone returns a copy that shares no slices with p.
func (p Project) Clone() Project {
	p.Technologies = slices.Clone(p.Technologies)
	p.Features = slices.Clone(p.Features)
	p.Challenges = slices.Clone(p.Challenges)
	p.Results = slices.Clone(p.Results)
	return p
}

// Article is a blog article.
type Article struct {
	ID        string
	Title     string
	Category  Category
	Published string
	ReadTime  string
	Abstract  string
	Content   template.HTML
	Author    string
}

func (a Article) Key() string  { return a.ID }
func (a Article) Kind() string { return "article" }

// Clone returns a copy of a. Articles hold no shared slices.
func (a Article) Clone() Article { return a }
