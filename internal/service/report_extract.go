package service

import (
	"encoding/json"
	"fmt"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/feru-app/beacon/internal/domain/model"
)

// DefaultMetricExpressions maps metric fields to JMESPath expressions over a
// raw Lighthouse report document. Runners normally send flat metric fields;
// the expressions are the fallback for runners that post the whole report.
func DefaultMetricExpressions() map[string]string {
	return map[string]string{
		"lcp":               `audits."largest-contentful-paint".numericValue`,
		"fcp":               `audits."first-contentful-paint".numericValue`,
		"cls":               `audits."cumulative-layout-shift".numericValue`,
		"tbt":               `audits."total-blocking-time".numericValue`,
		"tti":               `audits."interactive".numericValue`,
		"ttfb":              `audits."server-response-time".numericValue`,
		"performance_score": `categories.performance.score`,
	}
}

// ReportExtractor pulls metric values out of a raw report document using
// precompiled JMESPath expressions.
type ReportExtractor struct {
	exprs map[string]jmespath.JMESPath
}

// NewReportExtractor compiles the given field→expression map. Pass the result
// of DefaultMetricExpressions unless the runner report shape differs.
func NewReportExtractor(expressions map[string]string) (*ReportExtractor, error) {
	exprs := make(map[string]jmespath.JMESPath, len(expressions))
	for field, raw := range expressions {
		compiled, err := jmespath.Compile(raw)
		if err != nil {
			return nil, fmt.Errorf("compile expression for %s: %w", field, err)
		}
		exprs[field] = compiled
	}
	return &ReportExtractor{exprs: exprs}, nil
}

// Extract evaluates every expression against the raw report. Fields whose
// expression matches nothing, or matches a non-numeric value, stay nil.
func (e *ReportExtractor) Extract(raw json.RawMessage) (model.Metrics, error) {
	var metrics model.Metrics
	if e == nil || len(raw) == 0 {
		return metrics, nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return metrics, fmt.Errorf("parse raw report: %w", err)
	}

	targets := map[string]**float64{
		"lcp":               &metrics.LCP,
		"fcp":               &metrics.FCP,
		"cls":               &metrics.CLS,
		"tbt":               &metrics.TBT,
		"tti":               &metrics.TTI,
		"ttfb":              &metrics.TTFB,
		"performance_score": &metrics.PerformanceScore,
	}

	for field, expr := range e.exprs {
		target, ok := targets[field]
		if !ok {
			continue
		}
		value, err := expr.Search(doc)
		if err != nil || value == nil {
			continue
		}
		if num, isNum := value.(float64); isNum {
			v := num
			*target = &v
		}
	}
	return metrics, nil
}

// MergeMetrics fills any nil field of base from fallback. Flat webhook fields
// win over values extracted from the raw report.
func MergeMetrics(base, fallback model.Metrics) model.Metrics {
	if base.LCP == nil {
		base.LCP = fallback.LCP
	}
	if base.FCP == nil {
		base.FCP = fallback.FCP
	}
	if base.CLS == nil {
		base.CLS = fallback.CLS
	}
	if base.TBT == nil {
		base.TBT = fallback.TBT
	}
	if base.TTI == nil {
		base.TTI = fallback.TTI
	}
	if base.TTFB == nil {
		base.TTFB = fallback.TTFB
	}
	if base.PerformanceScore == nil {
		base.PerformanceScore = fallback.PerformanceScore
	}
	return base
}
