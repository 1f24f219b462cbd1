package asset

// Method is the depreciation computation method
type Method string

const (
	MethodLinear     Method = "linear"
	MethodDegressive Method = "degressive"
)

// IsValid checks if the method is supported
func (m Method) IsValid() bool {
	return m == MethodLinear || m == MethodDegressive
}

// String returns the string representation of Method
func (m Method) String() string {
	return string(m)
}

// MethodTime decides how the number of depreciation periods is derived
type MethodTime string

const (
	// MethodTimeNumber uses a fixed number of depreciations
	MethodTimeNumber MethodTime = "number"
	// MethodTimeEnd steps periods until an ending date
	MethodTimeEnd MethodTime = "end"
	// MethodTimeActivity and MethodTimeFactor are accepted and scheduled like MethodTimeNumber
	MethodTimeActivity MethodTime = "activity"
	MethodTimeFactor   MethodTime = "factor"
)

// IsValid checks if the time method is known
func (t MethodTime) IsValid() bool {
	switch t {
	case MethodTimeNumber, MethodTimeEnd, MethodTimeActivity, MethodTimeFactor:
		return true
	}
	return false
}

// String returns the string representation of MethodTime
func (t MethodTime) String() string {
	return string(t)
}

// AssetState is the lifecycle state of an asset
type AssetState string

const (
	AssetStateDraft AssetState = "draft"
	AssetStateOpen  AssetState = "open"
	AssetStateClose AssetState = "close"
)

// IsValid checks if the state is known
func (s AssetState) IsValid() bool {
	switch s {
	case AssetStateDraft, AssetStateOpen, AssetStateClose:
		return true
	}
	return false
}

// String returns the string representation of AssetState
func (s AssetState) String() string {
	return string(s)
}

// LineState is the posting state of a depreciation line
type LineState string

const (
	LineStateDraft  LineState = "draft"
	LineStateDone   LineState = "done"
	LineStateCancel LineState = "cancel"
)

// IsValid checks if the line state is known
func (s LineState) IsValid() bool {
	switch s {
	case LineStateDraft, LineStateDone, LineStateCancel:
		return true
	}
	return false
}

// IsPosted reports whether the line is an immutable anchor for recomputation
func (s LineState) IsPosted() bool {
	return s == LineStateDone || s == LineStateCancel
}

// String returns the string representation of LineState
func (s LineState) String() string {
	return string(s)
}

// Valuation decides whether postings are generated automatically
type Valuation string

const (
	ValuationAuto   Valuation = "auto"
	ValuationManual Valuation = "manual"
)

// IsValid checks if the valuation is known
func (v Valuation) IsValid() bool {
	return v == ValuationAuto || v == ValuationManual
}

// CategoryType separates grouping categories from assignable ones
type CategoryType string

const (
	CategoryTypeView   CategoryType = "view"
	CategoryTypeNormal CategoryType = "normal"
)

// IsValid checks if the category type is known
func (t CategoryType) IsValid() bool {
	return t == CategoryTypeView || t == CategoryTypeNormal
}
