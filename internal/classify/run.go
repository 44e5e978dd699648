package classify

import (
	"context"
	"fmt"

	"ainews/internal/ainewsdb"
	"ainews/internal/config"
	"ainews/internal/logger"
)

// Run classifies every pending article in the configured store. A non-empty
// logFile overrides the configured log destination.
func Run(ctx context.Context, logFile string, loadConfig config.ConfigLoad) (Result, error) {
	appCfg, err := loadConfig()
	if err != nil {
		return Result{}, err
	}
	log, err := appCfg.NewLogger(logFile)
	if err != nil {
		return Result{}, err
	}
	defer log.Sync()

	capability, err := NewOpenAI(OpenAIConfig{
		BaseURL: appCfg.AI.BaseUrl,
		APIKey:  appCfg.AI.APIKey,
		Model:   appCfg.AI.Model,
		Timeout: appCfg.AITimeout(),
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w (set GEMINI_API_KEY or ai.api_key)", err)
	}
	classifier, err := New(capability, Options{
		Prompt:      appCfg.AI.Prompt,
		MinInterval: appCfg.MinInterval(),
	})
	if err != nil {
		return Result{}, err
	}

	store, err := ainewsdb.OpenStore(ctx, appCfg.DatabasePath)
	if err != nil {
		return Result{}, fmt.Errorf("failed opening the ainews database: %w", err)
	}
	defer store.Close()

	res, err := ClassifyPending(ctx, store, classifier, log.With(logger.String("model", capability.model)))
	if err != nil {
		log.Error("classification aborted", logger.Error(err))
	}
	return res, err
}
