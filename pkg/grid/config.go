package grid

import (
	"log/slog"

	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// Query parameters of the lazy-load protocol.
const (
	ParamNodeID = "treegrid_id"
	ParamToken  = "treegrid_token"
)

// TokenAttr is the container attribute that echoes the request token.
const TokenAttr = "data-treegrid-token"

// RowHook returns extra markup inserted before or after a data row. An empty
// string inserts nothing.
type RowHook func(rec types.Record, key types.Key, index int) (string, error)

// Config holds the rendering options of a Grid. Start from DefaultConfig;
// the zero value disables the header and lazy loading.
type Config struct {
	// ID is the id of the container element. Empty generates one.
	ID string

	// Options are the container attributes. The "tag" entry selects the
	// element name and defaults to "div".
	Options map[string]any

	TableOptions     map[string]any
	HeaderRowOptions map[string]any
	FooterRowOptions map[string]any

	// RowOptions are static attributes of every body row. RowOptionsFunc,
	// when set, replaces them per row.
	RowOptions     map[string]any
	RowOptionsFunc types.OptionsFunc

	BeforeRow RowHook
	AfterRow  RowHook

	ShowHeader bool
	ShowFooter bool

	// EmptyText replaces the localized "No results found." message.
	EmptyText        string
	EmptyTextOptions map[string]any

	// EmptyCell is rendered for cells without content.
	EmptyCell string

	// Columns to render. Empty means guess them from the first record.
	Columns []types.ColumnSpec

	// PluginOptions are passed to the client widget. A "source" entry
	// replaces the default lazy-load callback.
	PluginOptions map[string]any

	// LazyLoad renders only the first level and lets the widget fetch
	// children on expand.
	LazyLoad bool

	// ShowRoot renders the whole tree on the initial lazy render instead of
	// the root level only.
	ShowRoot bool

	// Route is the URL the default client callback fetches children from.
	// Empty means the current page path.
	Route string

	// Language is a BCP 47 tag used for messages and number formatting.
	Language string

	Formatter Formatter
	Logger    *slog.Logger
}

// DefaultConfig returns the defaults of the treegrid widget.
func DefaultConfig() Config {
	return Config{
		Options:          map[string]any{"class": "treegrid"},
		TableOptions:     map[string]any{"class": "table table-bordered"},
		EmptyTextOptions: map[string]any{"class": "empty"},
		EmptyCell:        "&nbsp;",
		ShowHeader:       true,
		LazyLoad:         true,
		Language:         "en",
	}
}
