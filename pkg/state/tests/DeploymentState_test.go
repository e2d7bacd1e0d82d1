package statetests

import "testing"

import "github.com/sirgallo/flow/pkg/record"


func TestPutAndGetDeployment(t *testing.T) {
	engineState := SetupMockState(t)

	value := &record.DeploymentRecordValue{
		ProcessId: "order-process",
		ProcessDefinitionKey: 100,
		Resource: []byte(`{"ProcessId":"order-process"}`),
	}

	putErr := engineState.Deployments.PutDeployment(1, value)
	if putErr != nil { t.Errorf("error on putting deployment: %s", putErr.Error()) }

	deployment, getErr := engineState.Deployments.GetDeployment(1)
	if getErr != nil { t.Errorf("error on getting deployment: %s", getErr.Error()) }

	t.Logf("actual deployment: %v\n", deployment)

	if deployment == nil || deployment.ProcessId != "order-process" || deployment.ProcessDefinitionKey != 100 {
		t.Errorf("actual deployment not equal to expected: actual(%v), expected(%v)\n", deployment, value)
	}
}

func TestGetDeploymentsReturnsAllStored(t *testing.T) {
	engineState := SetupMockState(t)

	engineState.Deployments.PutDeployment(1, &record.DeploymentRecordValue{ ProcessId: "a", ProcessDefinitionKey: 100 })
	engineState.Deployments.PutDeployment(2, &record.DeploymentRecordValue{ ProcessId: "b", ProcessDefinitionKey: 200 })

	deployments, getErr := engineState.Deployments.GetDeployments()
	if getErr != nil { t.Errorf("error on getting deployments: %s", getErr.Error()) }

	expectedTotal := 2

	t.Logf("actual total: %d, expected total: %d\n", len(deployments), expectedTotal)
	if len(deployments) != expectedTotal {
		t.Errorf("actual total not equal to expected: actual(%d), expected(%d)\n", len(deployments), expectedTotal)
	}

	if deployments[2].ProcessId != "b" {
		t.Errorf("actual process id not equal to expected: actual(%s), expected(b)\n", deployments[2].ProcessId)
	}
}

func TestPendingDeploymentDistributionLifecycle(t *testing.T) {
	engineState := SetupMockState(t)

	addFirstErr := engineState.Deployments.AddPendingDeploymentDistribution(1, 2)
	if addFirstErr != nil { t.Errorf("error on adding pending distribution: %s", addFirstErr.Error()) }

	addSecondErr := engineState.Deployments.AddPendingDeploymentDistribution(1, 3)
	if addSecondErr != nil { t.Errorf("error on adding pending distribution: %s", addSecondErr.Error()) }

	pending, hasErr := engineState.Deployments.HasPendingDeploymentDistribution(1)
	if hasErr != nil { t.Errorf("error on checking pending distribution: %s", hasErr.Error()) }

	if ! pending {
		t.Errorf("actual pending not equal to expected: actual(%v), expected(true)\n", pending)
	}

	engineState.Deployments.RemovePendingDeploymentDistribution(1, 2)

	stillPending, stillErr := engineState.Deployments.HasPendingDeploymentDistribution(1)
	if stillErr != nil { t.Errorf("error on checking pending distribution: %s", stillErr.Error()) }

	if ! stillPending {
		t.Errorf("actual pending not equal to expected: actual(%v), expected(true)\n", stillPending)
	}

	engineState.Deployments.RemovePendingDeploymentDistribution(1, 3)

	drained, drainedErr := engineState.Deployments.HasPendingDeploymentDistribution(1)
	if drainedErr != nil { t.Errorf("error on checking pending distribution: %s", drainedErr.Error()) }

	if drained {
		t.Errorf("actual pending not equal to expected: actual(%v), expected(false)\n", drained)
	}
}
