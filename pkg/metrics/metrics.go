package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// 全局 Registry，供 API/Ingest 注册与暴露
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(
		QueryTotal, QueryDuration, QueryRounds,
		ToolDuration, ToolTotal,
		LLMCallTotal, LLMCallDuration,
	)
}

// QueryTotal 问答请求总数（按结果）
var QueryTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "courseqa_query_total",
		Help: "问答请求总数（按结果）",
	},
	[]string{"outcome"}, // direct | tool_rounds | fallback
)

// QueryDuration 问答请求耗时（秒）
var QueryDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "courseqa_query_duration_seconds",
		Help:    "问答请求耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
)

// QueryRounds 单次问答执行的工具轮数
var QueryRounds = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "courseqa_query_tool_rounds",
		Help:    "单次问答执行的工具轮数",
		Buckets: []float64{0, 1, 2, 3},
	},
)

// ToolDuration 工具调用耗时（秒）
var ToolDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "courseqa_tool_duration_seconds",
		Help:    "工具调用耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"tool"},
)

// ToolTotal 工具调用总数（按结果）
var ToolTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "courseqa_tool_total",
		Help: "工具调用总数（按结果）",
	},
	[]string{"tool", "outcome"}, // ok | error | not_found
)

// LLMCallTotal Completion 服务调用总数（按结果）
var LLMCallTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "courseqa_llm_call_total",
		Help: "Completion 服务调用总数（按结果）",
	},
	[]string{"outcome"}, // ok | error
)

// LLMCallDuration Completion 服务调用耗时（秒）
var LLMCallDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "courseqa_llm_call_duration_seconds",
		Help:    "Completion 服务调用耗时（秒）",
		Buckets: prometheus.DefBuckets,
	},
)

// WritePrometheus 将 Prometheus 文本格式写入 w（供 Hertz 等复用）
func WritePrometheus(w io.Writer) error {
	metrics, err := DefaultRegistry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range metrics {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
