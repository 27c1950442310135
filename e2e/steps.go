package e2e

import (
	"github.com/cucumber/godog"

	"donorlink/e2e/steps/browse"
	"donorlink/e2e/steps/common"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	browse.RegisterSteps(ctx, tc)
}
