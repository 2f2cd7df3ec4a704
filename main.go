package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	auditx "github.com/marova/sliceline/ordering/audit"
	guardx "github.com/marova/sliceline/ordering/guard"
	pricingx "github.com/marova/sliceline/ordering/pricing"
	servicex "github.com/marova/sliceline/ordering/service"
	statex "github.com/marova/sliceline/ordering/state"
	toolx "github.com/marova/sliceline/ordering/tool"
	configx "github.com/marova/sliceline/pkg/config"
	dominosx "github.com/marova/sliceline/pkg/dominos"
	_ "github.com/marova/sliceline/pkg/logger/autoload"
)

type AppConfig struct {
	ProfilePath    string `envconfig:"PROFILE_PATH" split_words:"true" default:"profile.json"`
	SessionBackend string `envconfig:"SESSION_BACKEND" split_words:"true" default:"file"`
	AuditBackend   string `envconfig:"AUDIT_BACKEND" split_words:"true" default:"file"`
}

func main() {
	ctx := context.Background()

	appCfg := configx.MustNew[AppConfig]("")
	profile := configx.MustLoadProfile(appCfg.ProfilePath)

	recordStore := newRecordStore(appCfg.SessionBackend)
	session := statex.NewSession(ctx, recordStore)

	trail := auditx.NewTrail(newAuditSink(ctx, appCfg.AuditBackend))

	client := dominosx.MustNew(*configx.MustNew[dominosx.Config]("DOMINOS"))
	estimator := *configx.MustNew[pricingx.Config]("PRICING")

	guardCfg := configx.MustNew[guardx.Config]("GUARD")
	pipeline, err := guardx.New(session, profile, client, trail, estimator, *guardCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("guard pipeline init failed")
	}

	svc, err := servicex.New(session, profile, client, pipeline, estimator)
	if err != nil {
		log.Fatal().Err(err).Msg("ordering service init failed")
	}

	infos, execute := toolx.Build(svc)
	log.Info().
		Str("market", string(client.Market())).
		Bool("dry_run", pipeline.DryRun()).
		Int("tools", len(infos)).
		Msg("ordering core ready")

	if len(os.Args) > 1 {
		runOnce(ctx, execute, os.Args[1], os.Args[2:])
	}
}

// runOnce executes a single tool invocation from the command line, for
// smoke-testing a deployment: sliceline order.get_menu '{"category":"Pizza"}'.
func runOnce(ctx context.Context, execute toolx.Executor, tool string, rest []string) {
	args := map[string]any{}
	if len(rest) > 0 {
		if err := json.Unmarshal([]byte(rest[0]), &args); err != nil {
			log.Fatal().Err(err).Msg("tool arguments must be a JSON object")
		}
	}

	result, err := execute(ctx, tool, args)
	if err != nil {
		log.Fatal().Err(err).Str("tool", tool).Msg("tool execution failed")
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encode tool result")
	}
	fmt.Println(string(payload))
}

func newRecordStore(backend string) statex.RecordStore {
	switch backend {
	case "redis":
		store, err := statex.NewRedisStore(*configx.MustNew[statex.RedisStoreConfig]("SESSION_REDIS"))
		if err != nil {
			log.Fatal().Err(err).Msg("redis session store init failed")
		}
		return store
	case "file", "":
		store, err := statex.NewFileStore(*configx.MustNew[statex.FileStoreConfig]("SESSION_FILE"))
		if err != nil {
			log.Fatal().Err(err).Msg("file session store init failed")
		}
		return store
	default:
		log.Fatal().Str("backend", backend).Msg("unknown session backend")
		return nil
	}
}

func newAuditSink(ctx context.Context, backend string) auditx.Sink {
	switch backend {
	case "postgres":
		sink, err := auditx.NewPostgresSink(*configx.MustNew[auditx.PostgresSinkConfig]("AUDIT_PG"))
		if err != nil {
			log.Fatal().Err(err).Msg("postgres audit sink init failed")
		}
		if err := sink.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("audit schema init failed")
		}
		return sink
	case "file", "":
		sink, err := auditx.NewFileSink(*configx.MustNew[auditx.FileSinkConfig]("AUDIT_FILE"))
		if err != nil {
			log.Fatal().Err(err).Msg("file audit sink init failed")
		}
		return sink
	default:
		log.Fatal().Str("backend", backend).Msg("unknown audit backend")
		return nil
	}
}
