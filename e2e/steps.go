package e2e

import (
	"github.com/cucumber/godog"

	"coursebatch/e2e/steps/batch"
	"coursebatch/e2e/steps/common"
	"coursebatch/e2e/steps/enrolment"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (identity, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register batch administration steps
	batch.RegisterSteps(ctx, tc)

	// Register enrolment and listing steps
	enrolment.RegisterSteps(ctx, tc)
}
