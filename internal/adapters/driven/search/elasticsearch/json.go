package elasticsearch

import "github.com/goccy/go-json"

// for imroc/req and bulk bodies
var (
	jsonMarshal   = json.Marshal
	jsonUnmarshal = json.Unmarshal
)
