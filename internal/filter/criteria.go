package filter

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/nao1215/realreach/internal/model"
)

// ErrInvalidCriteria is returned when filter criteria can not be applied.
var ErrInvalidCriteria = errors.New("invalid filter criteria")

// MarkedStatus selects results by their marked-suspicious flag.
type MarkedStatus string

// Marked status values.
const (
	MarkedAll      MarkedStatus = "all"
	MarkedOnly     MarkedStatus = "marked"
	MarkedUnmarked MarkedStatus = "unmarked"
)

// SortKey is the field results are ordered by.
type SortKey string

// Sort keys.
const (
	SortByScore    SortKey = "score"
	SortByUsername SortKey = "username"
	SortByDate     SortKey = "date"
)

// SortDirection is the order of the sort.
type SortDirection string

// Sort directions.
const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Criteria describes which results to keep and how to order them.
type Criteria struct {
	// ScoreRange is the inclusive [min, max] score range.
	ScoreRange [2]int `json:"scoreRange"`

	// Issues keeps results carrying at least one of these types.
	// An empty list disables the issue filter.
	Issues []model.IssueType `json:"issues"`

	// MarkedStatus filters on the marked-suspicious flag.
	MarkedStatus MarkedStatus `json:"markedStatus"`

	// SortBy is the sort key.
	SortBy SortKey `json:"sortBy"`

	// SortDirection is the sort order.
	SortDirection SortDirection `json:"sortDirection"`

	// HideHidden drops results the user has hidden.
	HideHidden bool `json:"hideHidden"`
}

// DefaultCriteria returns criteria that keep every result, sorted by
// ascending score.
func DefaultCriteria() Criteria {
	return Criteria{
		ScoreRange:    [2]int{0, model.MaxScore},
		Issues:        nil,
		MarkedStatus:  MarkedAll,
		SortBy:        SortByScore,
		SortDirection: Ascending,
	}
}

// Validate checks that the criteria can be applied.
func (c Criteria) Validate() error {
	lo, hi := c.ScoreRange[0], c.ScoreRange[1]
	if lo < 0 || hi > model.MaxScore {
		return fmt.Errorf("%w: score range [%d,%d] outside [0,%d]", ErrInvalidCriteria, lo, hi, model.MaxScore)
	}
	if lo > hi {
		return fmt.Errorf("%w: score range minimum %d exceeds maximum %d", ErrInvalidCriteria, lo, hi)
	}

	for _, it := range c.Issues {
		if !it.IsValid() {
			return fmt.Errorf("%w: unknown issue type %q", ErrInvalidCriteria, it)
		}
	}

	switch c.MarkedStatus {
	case MarkedAll, MarkedOnly, MarkedUnmarked:
	default:
		return fmt.Errorf("%w: unknown marked status %q", ErrInvalidCriteria, c.MarkedStatus)
	}

	switch c.SortBy {
	case SortByScore, SortByUsername, SortByDate:
	default:
		return fmt.Errorf("%w: unknown sort key %q", ErrInvalidCriteria, c.SortBy)
	}

	switch c.SortDirection {
	case Ascending, Descending:
	default:
		return fmt.Errorf("%w: unknown sort direction %q", ErrInvalidCriteria, c.SortDirection)
	}

	return nil
}

// Query parameter names understood by ParseCriteria.
const (
	ParamMin        = "min"
	ParamMax        = "max"
	ParamIssue      = "issue"
	ParamMarked     = "marked"
	ParamSort       = "sort"
	ParamDirection  = "dir"
	ParamHideHidden = "hide-hidden"
)

// ParseCriteria builds Criteria from query parameters. Missing parameters
// keep their DefaultCriteria value. The issue parameter may be repeated or
// hold a comma separated list. The result is validated.
func ParseCriteria(values url.Values) (Criteria, error) {
	c := DefaultCriteria()

	if v := values.Get(ParamMin); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%w: min score %q is not a number", ErrInvalidCriteria, v)
		}
		c.ScoreRange[0] = n
	}
	if v := values.Get(ParamMax); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c, fmt.Errorf("%w: max score %q is not a number", ErrInvalidCriteria, v)
		}
		c.ScoreRange[1] = n
	}

	for _, raw := range values[ParamIssue] {
		for _, part := range strings.Split(raw, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			it, err := model.ParseIssueType(part)
			if err != nil {
				return c, fmt.Errorf("%w: %w", ErrInvalidCriteria, err)
			}
			c.Issues = append(c.Issues, it)
		}
	}

	if v := values.Get(ParamMarked); v != "" {
		c.MarkedStatus = MarkedStatus(strings.ToLower(v))
	}
	if v := values.Get(ParamSort); v != "" {
		c.SortBy = SortKey(strings.ToLower(v))
	}
	if v := values.Get(ParamDirection); v != "" {
		c.SortDirection = SortDirection(strings.ToLower(v))
	}
	if v := values.Get(ParamHideHidden); v != "" {
		hide, err := strconv.ParseBool(v)
		if err != nil {
			return c, fmt.Errorf("%w: hide-hidden %q is not a boolean", ErrInvalidCriteria, v)
		}
		c.HideHidden = hide
	}

	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

// Values encodes the criteria as query parameters accepted by ParseCriteria.
func (c Criteria) Values() url.Values {
	values := url.Values{}
	values.Set(ParamMin, strconv.Itoa(c.ScoreRange[0]))
	values.Set(ParamMax, strconv.Itoa(c.ScoreRange[1]))
	for _, it := range c.Issues {
		values.Add(ParamIssue, it.String())
	}
	values.Set(ParamMarked, string(c.MarkedStatus))
	values.Set(ParamSort, string(c.SortBy))
	values.Set(ParamDirection, string(c.SortDirection))
	if c.HideHidden {
		values.Set(ParamHideHidden, "true")
	}
	return values
}
