package query

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// errUnknownVersion is internal only: version mismatches fail closed to the
// empty query, they are never surfaced to callers.
var errUnknownVersion = errors.New("query: unknown query version")

// Short parameter keys. Kept terse on purpose: these appear in every shared
// URL and the address bar is a UI surface.
const (
	paramCategory     = "cat"
	paramStatus       = "st"
	paramLevels       = "pl"
	paramSearch       = "q"
	paramFocus        = "focus"
	paramFocusNode    = "fn"
	paramSkillGap     = "gap"
	paramCompare      = "cmp"
	paramViewportX    = "vx"
	paramViewportY    = "vy"
	paramViewportZoom = "vs"
	paramSelected     = "sel"
	paramSort         = "sort"
	paramDir          = "dir"
	paramBlob         = "v"
)

// =============================================================================
// Encoding
// =============================================================================

// EncodeParams maps a query to URL parameters. Simple fields each get their
// own short key; multi-valued fields are comma-joined. Queries carrying
// filters or a join have no compact per-field form, so the whole query is
// JSON-encoded into a single base64url "v" parameter instead.
func EncodeParams(q ViewQuery) url.Values {
	vals := url.Values{}
	if q.Filters != nil || q.Join != nil {
		if blob, err := encodeBlob(q); err == nil {
			vals.Set(paramBlob, blob)
			return vals
		}
	}
	if q.Category != "" {
		vals.Set(paramCategory, q.Category)
	}
	if len(q.Status) > 0 {
		vals.Set(paramStatus, strings.Join(q.Status, ","))
	}
	if len(q.ProgressionLevel) > 0 {
		vals.Set(paramLevels, joinInts(q.ProgressionLevel))
	}
	if q.Search != "" {
		vals.Set(paramSearch, q.Search)
	}
	if q.FocusMode {
		vals.Set(paramFocus, "1")
	}
	if q.Traversal != nil && q.Traversal.StartNodeID != "" {
		vals.Set(paramFocusNode, q.Traversal.StartNodeID)
	}
	if q.SkillGapMode {
		vals.Set(paramSkillGap, "1")
	}
	if len(q.ComparePaths) > 0 {
		vals.Set(paramCompare, strings.Join(q.ComparePaths, ","))
	}
	if q.Viewport != nil {
		// Rounded so pan jitter does not produce endlessly distinct URLs.
		vals.Set(paramViewportX, strconv.Itoa(int(math.Round(q.Viewport.X))))
		vals.Set(paramViewportY, strconv.Itoa(int(math.Round(q.Viewport.Y))))
		vals.Set(paramViewportZoom, strconv.FormatFloat(q.Viewport.Zoom, 'f', 2, 64))
	}
	if q.Selection != nil && len(q.Selection.Selected) > 0 {
		vals.Set(paramSelected, q.Selection.Selected[0])
	}
	if q.SortBy != "" {
		vals.Set(paramSort, string(q.SortBy))
	}
	if q.SortDirection == SortDesc {
		vals.Set(paramDir, string(SortDesc))
	}
	return vals
}

// EncodeQuery returns the canonical query-string form of q. Keys are sorted,
// so equal queries always produce byte-identical strings.
func EncodeQuery(q ViewQuery) string {
	return EncodeParams(q).Encode()
}

// ShareURL appends q to base as a query string. A query with nothing to
// serialize leaves base untouched.
func ShareURL(base string, q ViewQuery) string {
	enc := EncodeQuery(q)
	if enc == "" {
		return base
	}
	return base + "?" + enc
}

func encodeBlob(q ViewQuery) (string, error) {
	if q.Version == 0 {
		q.Version = Version
	}
	raw, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}

// =============================================================================
// Decoding
// =============================================================================

// DecodeParams maps URL parameters back to a query. A "v" parameter wins
// outright: when present it is decoded alone and simple parameters are
// ignored. Malformed input of any kind (bad base64, bad JSON, unknown
// version) fails closed to the empty query rather than producing a
// partially populated one.
func DecodeParams(vals url.Values) ViewQuery {
	if blob := vals.Get(paramBlob); blob != "" {
		q, err := decodeBlob(blob)
		if err != nil {
			return NewEmptyQuery()
		}
		return q
	}
	q := NewEmptyQuery()
	q.Category = vals.Get(paramCategory)
	if v := vals.Get(paramStatus); v != "" {
		q.Status = StringList(splitList(v))
	}
	if v := vals.Get(paramLevels); v != "" {
		q.ProgressionLevel = IntList(splitInts(v))
	}
	q.Search = vals.Get(paramSearch)
	if vals.Get(paramFocus) == "1" {
		q.FocusMode = true
	}
	if fn := vals.Get(paramFocusNode); fn != "" {
		q.Traversal = &TraversalSpec{
			StartNodeID:  fn,
			Direction:    DirectionBoth,
			MaxDepth:     Unbounded,
			IncludeStart: true,
		}
	}
	if vals.Get(paramSkillGap) == "1" {
		q.SkillGapMode = true
	}
	if v := vals.Get(paramCompare); v != "" {
		q.ComparePaths = splitList(v)
	}
	if vp, ok := decodeViewport(vals); ok {
		q.Viewport = vp
	}
	if sel := vals.Get(paramSelected); sel != "" {
		q.Selection = &Selection{Selected: []string{sel}}
	}
	if s := vals.Get(paramSort); s != "" && SortField(s).Valid() {
		q.SortBy = SortField(s)
	}
	if vals.Get(paramDir) == string(SortDesc) {
		q.SortDirection = SortDesc
	}
	return q
}

// DecodeQuery parses a raw query string ("cat=frontend&focus=1") and decodes
// it. Unparseable input fails closed to the empty query.
func DecodeQuery(raw string) ViewQuery {
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return NewEmptyQuery()
	}
	return DecodeParams(vals)
}

// DecodeURL extracts the query string from a full URL and decodes it.
func DecodeURL(raw string) ViewQuery {
	u, err := url.Parse(raw)
	if err != nil {
		return NewEmptyQuery()
	}
	return DecodeQuery(u.RawQuery)
}

func decodeBlob(blob string) (ViewQuery, error) {
	raw, err := base64.URLEncoding.DecodeString(blob)
	if err != nil {
		// Tolerate blobs produced without padding.
		raw, err = base64.RawURLEncoding.DecodeString(blob)
		if err != nil {
			return ViewQuery{}, err
		}
	}
	var q ViewQuery
	if err := json.Unmarshal(raw, &q); err != nil {
		return ViewQuery{}, err
	}
	if q.Version != Version {
		return ViewQuery{}, errUnknownVersion
	}
	return q, nil
}

func decodeViewport(vals url.Values) (*Viewport, bool) {
	xs, ys, zs := vals.Get(paramViewportX), vals.Get(paramViewportY), vals.Get(paramViewportZoom)
	if xs == "" && ys == "" && zs == "" {
		return nil, false
	}
	x, errX := strconv.ParseFloat(xs, 64)
	y, errY := strconv.ParseFloat(ys, 64)
	z, errZ := strconv.ParseFloat(zs, 64)
	if errX != nil || errY != nil || errZ != nil {
		return nil, false
	}
	return &Viewport{X: x, Y: y, Zoom: z}, true
}

// =============================================================================
// Equality and diff
// =============================================================================

// Equal reports whether a and b serialize to identical parameter strings.
// This is deliberately weaker than deep structural equality: fields that
// never reach the URL (offset, limit, hover state) do not participate.
func Equal(a, b ViewQuery) bool {
	return EncodeQuery(a) == EncodeQuery(b)
}

// FieldChange records one field's value on each side of a diff.
type FieldChange struct {
	From any `json:"from"`
	To   any `json:"to"`
}

// Diff reports which of the primary view fields changed between a and b,
// keyed by field name. It covers category, status, progressionLevel,
// search, focusMode, skillGapMode, and comparePaths only; callers must not
// treat it as a full structural diff.
func Diff(a, b ViewQuery) map[string]FieldChange {
	out := map[string]FieldChange{}
	if a.Category != b.Category {
		out["category"] = FieldChange{From: a.Category, To: b.Category}
	}
	if !slices.Equal(a.Status, b.Status) {
		out["status"] = FieldChange{From: a.Status, To: b.Status}
	}
	if !slices.Equal(a.ProgressionLevel, b.ProgressionLevel) {
		out["progressionLevel"] = FieldChange{From: a.ProgressionLevel, To: b.ProgressionLevel}
	}
	if a.Search != b.Search {
		out["search"] = FieldChange{From: a.Search, To: b.Search}
	}
	if a.FocusMode != b.FocusMode {
		out["focusMode"] = FieldChange{From: a.FocusMode, To: b.FocusMode}
	}
	if a.SkillGapMode != b.SkillGapMode {
		out["skillGapMode"] = FieldChange{From: a.SkillGapMode, To: b.SkillGapMode}
	}
	if !slices.Equal(a.ComparePaths, b.ComparePaths) {
		out["comparePaths"] = FieldChange{From: a.ComparePaths, To: b.ComparePaths}
	}
	return out
}

// =============================================================================
// Small parsing helpers
// =============================================================================

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func splitInts(s string) []int {
	var out []int
	for _, p := range splitList(s) {
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
