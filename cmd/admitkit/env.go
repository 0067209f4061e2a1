package main

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/rushteam/admitkit/config"
	"github.com/rushteam/admitkit/config/builders"
	"github.com/rushteam/admitkit/core"
	"github.com/rushteam/admitkit/feature"
	"github.com/rushteam/admitkit/matcher"
	"github.com/rushteam/admitkit/metrics"
	"github.com/rushteam/admitkit/pipeline"
	"github.com/rushteam/admitkit/predict"
	"github.com/rushteam/admitkit/store"
	"github.com/rushteam/admitkit/table"
)

// appEnv 是一次命令运行所需的依赖。
type appEnv struct {
	Store    core.Store
	Table    *core.Table
	Matcher  *matcher.Matcher
	Metrics  *metrics.Metrics
	Registry *prometheus.Registry
}

func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// needsStore 判断当前配置是否需要连接存储。
func needsStore(c *config.AppConfig) bool {
	return c.Table.Source == table.KindStore
}

func openStore(c *config.AppConfig) (core.Store, error) {
	st, err := store.Open(c.Store.Driver, c.Store.Addr, c.Store.DB)
	if err != nil {
		return nil, eris.Wrap(err, "open store")
	}
	return st, nil
}

func loadTable(ctx context.Context, c *config.AppConfig, st core.Store) (*core.Table, error) {
	p, err := table.NewProvider(table.Source{
		Kind:  c.Table.Source,
		Path:  c.Table.Path,
		Sheet: c.Table.Sheet,
		Key:   c.Table.Key,
	}, st)
	if err != nil {
		return nil, err
	}
	t, err := p.Table(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "load table")
	}
	return t, nil
}

// buildPipeline 优先使用流水线配置文件；否则按分类器与编码器配置构建默认流水线。
func buildPipeline(c *config.AppConfig, m *metrics.Metrics) (*pipeline.Pipeline, error) {
	if c.Pipeline.Path != "" {
		return config.LoadPipeline(c.Pipeline.Path)
	}

	clf, err := builders.NewClassifier(c.Classifier)
	if err != nil {
		return nil, eris.Wrap(err, "build classifier")
	}
	var scorer *predict.Scorer
	if clf != nil {
		enc, err := feature.LoadEncoderSet(c.Encoders.Path)
		if err != nil {
			return nil, eris.Wrap(err, "load encoders")
		}
		scorer = predict.NewScorer(enc, clf)
	} else {
		zap.L().Warn("classifier disabled, admission chance will be unavailable")
	}
	return matcher.DefaultPipeline(scorer, c.Pipeline.MaxResults, m), nil
}

// initEnv 加载数据表；withMatcher 为 true 时同时构建打分流水线。
func initEnv(ctx context.Context, c *config.AppConfig, withMatcher bool) (*appEnv, error) {
	env := &appEnv{}
	if needsStore(c) {
		st, err := openStore(c)
		if err != nil {
			return nil, err
		}
		env.Store = st
	}

	t, err := loadTable(ctx, c, env.Store)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Table = t

	if !withMatcher {
		return env, nil
	}

	if c.Metrics.Enabled {
		env.Metrics = metrics.NewMetrics()
		env.Registry = prometheus.NewRegistry()
		if err := env.Metrics.Register(env.Registry); err != nil {
			env.Close()
			return nil, eris.Wrap(err, "register metrics")
		}
	}

	p, err := buildPipeline(c, env.Metrics)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Matcher = matcher.New(t, p, env.Metrics)
	return env, nil
}

// logMetrics 在命令结束时输出指标汇总。
func (e *appEnv) logMetrics() {
	if e.Registry == nil {
		return
	}
	families, err := e.Registry.Gather()
	if err != nil {
		zap.L().Warn("gather metrics", zap.Error(err))
		return
	}
	for _, f := range families {
		for _, m := range f.GetMetric() {
			fields := []zap.Field{zap.String("metric", f.GetName())}
			for _, l := range m.GetLabel() {
				fields = append(fields, zap.String(l.GetName(), l.GetValue()))
			}
			switch {
			case m.GetCounter() != nil:
				fields = append(fields, zap.Float64("value", m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				fields = append(fields,
					zap.Uint64("count", m.GetHistogram().GetSampleCount()),
					zap.Float64("sum", m.GetHistogram().GetSampleSum()),
				)
			}
			zap.L().Info("metrics", fields...)
		}
	}
}
