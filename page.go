package inertia

// Page is the page object sent to the client, either as the JSON body of
// a protocol visit or embedded in the HTML shell on the first load.
//
// Optional fields are omitted when empty. Version is null when no asset
// version is known. History encryption is not supported, so ClearHistory
// and EncryptHistory are always false.
type Page struct {
	Component      string              `json:"component"`
	Props          map[string]any      `json:"props"`
	URL            string              `json:"url"`
	Version        *string             `json:"version"`
	ClearHistory   bool                `json:"clearHistory"`
	EncryptHistory bool                `json:"encryptHistory"`
	OnceProps      map[string]OnceMeta `json:"onceProps,omitempty"`
	MergeProps     []string            `json:"mergeProps,omitempty"`
	PrependProps   []string            `json:"prependProps,omitempty"`
	DeepMergeProps []string            `json:"deepMergeProps,omitempty"`
	MatchPropsOn   []string            `json:"matchPropsOn,omitempty"`
	DeferredProps  map[string][]string `json:"deferredProps,omitempty"`
	Flash          map[string]any      `json:"flash,omitempty"`
}

// VersionString returns the asset version, or empty string.
func (p *Page) VersionString() string {
	if p.Version == nil {
		return ""
	}
	return *p.Version
}

func newPage(component string, props map[string]any, url, version string, once map[string]OnceMeta, merge mergeMeta, deferred map[string][]string) *Page {
	page := &Page{
		Component:      component,
		Props:          props,
		URL:            url,
		MergeProps:     merge.append,
		PrependProps:   merge.prepend,
		DeepMergeProps: merge.deep,
		MatchPropsOn:   merge.match,
	}
	if version != "" {
		page.Version = &version
	}
	if len(once) > 0 {
		page.OnceProps = once
	}
	if len(deferred) > 0 {
		page.DeferredProps = deferred
	}
	return page
}
