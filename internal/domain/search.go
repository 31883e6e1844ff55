package domain

// Revision identifies one of the two API variants under comparison.
type Revision string

const (
	// RevisionOld is the pre-migration ("B") revision of the search API.
	RevisionOld Revision = "B"
	// RevisionNew is the post-migration ("C") revision of the search API.
	RevisionNew Revision = "C"
)

// InformationType is the closed category label attached to each result record.
type InformationType string

const (
	TypeNews        InformationType = "NEWS"
	TypeReport      InformationType = "REPORT"
	TypeNotice      InformationType = "NOTICE"
	TypeCFH         InformationType = "CFH"
	TypeLaw         InformationType = "LAW"
	TypeBond        InformationType = "BOND"
	TypeWechat      InformationType = "WECHAT"
	TypeInteraction InformationType = "INTERACTION"
	TypeInvNews     InformationType = "INV_NEWS"
	TypeHotNews     InformationType = "HOT_NEWS"
)

// AllInformationTypes lists every known category in request order.
var AllInformationTypes = []InformationType{
	TypeNews, TypeReport, TypeNotice, TypeCFH, TypeLaw,
	TypeBond, TypeWechat, TypeInteraction, TypeInvNews, TypeHotNews,
}

// SearchParams mirrors the recognized request-body fields of the search API.
type SearchParams struct {
	TimeSupSize        int    `json:"timeSupSize" yaml:"timeSupSize"`
	DecomposedFlag     bool   `json:"decomposedFlag" yaml:"decomposedFlag"`
	DecomposedSize     int    `json:"decomposedSize" yaml:"decomposedSize"`
	Size               int    `json:"size" yaml:"size"`
	UseNewsSearch      bool   `json:"useNewsSearch" yaml:"useNewsSearch"`
	SearchStrategyType string `json:"searchStrategyType,omitempty" yaml:"searchStrategyType"`
}

// Endpoint is one concrete revision of the search API to probe.
type Endpoint struct {
	Revision Revision
	URL      string
	Params   SearchParams
}

// ResultRecord is a single entry of the response `data` list. Fields may be
// absent or empty; emptiness itself is a validation target.
type ResultRecord struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	ShowTime        string          `json:"showTime"`
	Source          string          `json:"source"`
	InformationType InformationType `json:"informationType"`
	JumpURL         string          `json:"jumpUrl"`
	CurrentQuery    string          `json:"currentQuery"`
	OriginalQuery   string          `json:"originalQuery"`
}

// CacheBucket classifies a response by its cache metadata.
type CacheBucket string

const (
	BucketCacheHit    CacheBucket = "cache_hit"
	BucketCacheMiss   CacheBucket = "cache_miss"
	BucketNoCacheInfo CacheBucket = "no_cache_info"
)

// AllCacheBuckets lists the buckets in persisted column order.
var AllCacheBuckets = []CacheBucket{BucketCacheHit, BucketCacheMiss, BucketNoCacheInfo}

// CacheInfo captures the cache metadata of one response.
type CacheInfo struct {
	Present bool
	Hit     bool
	TraceID string
}

// Bucket maps the raw cache metadata onto its coverage bucket.
func (c CacheInfo) Bucket() CacheBucket {
	if !c.Present {
		return BucketNoCacheInfo
	}
	if c.Hit {
		return BucketCacheHit
	}
	return BucketCacheMiss
}

// ProbeResult is the parsed outcome of one successful probe. It is owned by
// the caller for one diff/validation cycle and then discarded.
type ProbeResult struct {
	// CorrelationID is the client-generated trace id of the winning attempt.
	CorrelationID string
	// ServerTraceID is the trace id echoed by the backend.
	ServerTraceID string
	Records       []ResultRecord
	// DataValid is false when the response carried a `data` field that is
	// not a list; Records is empty in that case.
	DataValid         bool
	Cache             CacheInfo
	DecomposedQueries []string
}

// IDs returns the result identifiers in response order.
func (p ProbeResult) IDs() []string {
	ids := make([]string, 0, len(p.Records))
	for _, rec := range p.Records {
		ids = append(ids, rec.ID)
	}
	return ids
}
