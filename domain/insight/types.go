package insight

import (
	"bytes"
	"encoding/json"
)

// Significance threshold for every hypothesis test
const Alpha = 0.05

// Metric is one test-specific field of an Insight, emitted in order
type Metric struct {
	Key   string
	Value interface{}
}

// Insight is the structured result of one hypothesis test
type Insight struct {
	ID             string
	Question       string
	Hypothesis     string
	Test           string
	Metrics        []Metric
	PValue         float64
	Significant    bool
	Interpretation string
	Recommendation string
}

// IsSignificant reports whether p is below Alpha
func IsSignificant(p float64) bool {
	return p < Alpha
}

// Metric returns the value stored under key
func (i Insight) Metric(key string) (interface{}, bool) {
	for _, m := range i.Metrics {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// MarshalJSON flattens the metrics into the insight object so consumers see
// one record per test with the common fields around the test-specific ones.
func (i Insight) MarshalJSON() ([]byte, error) {
	obj := make(Object, 0, len(i.Metrics)+8)
	obj = append(obj,
		Metric{"id", i.ID},
		Metric{"question", i.Question},
		Metric{"hypothesis", i.Hypothesis},
		Metric{"test", i.Test},
	)
	obj = append(obj, i.Metrics...)
	obj = append(obj,
		Metric{"p_value", i.PValue},
		Metric{"significant", i.Significant},
		Metric{"interpretation", i.Interpretation},
		Metric{"recommendation", i.Recommendation},
	)
	return obj.MarshalJSON()
}

// Object is a JSON object that keeps its key order
type Object []Metric

func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for n, m := range o {
		if n > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(m.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Skipped records a test that produced no insight
type Skipped struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// QAItem is one question/answer card derived from the dashboard artifacts
type QAItem struct {
	ID        string `json:"id"`
	CardTitle string `json:"cardTitle"`
	Question  string `json:"question"`
	Answer    string `json:"answer"`
}
