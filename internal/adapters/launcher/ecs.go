// Package launcher provides the ECS-backed TaskLauncher adapter.
//
// Each configured region is bound to its own cluster, task definition, and
// subnet, and gets its own region-scoped ECS client. Launch failures are
// reported as errors; no retry happens at this layer.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	ecstypes "github.com/aws/aws-sdk-go-v2/service/ecs/types"

	"github.com/feru-app/beacon/internal/core"
)

const (
	defaultContainerName = "runner"
	defaultCPU           = int32(1024)
	defaultMemory        = int32(2048)
)

// RegionTarget binds a region code to the infrastructure a task launches into.
type RegionTarget struct {
	Cluster        string
	TaskDefinition string
	Subnet         string
}

// runTaskAPI is the slice of the ECS client used by the launcher.
type runTaskAPI interface {
	RunTask(ctx context.Context, in *ecs.RunTaskInput, optFns ...func(*ecs.Options)) (*ecs.RunTaskOutput, error)
}

// Options holds the dependencies for creating an ECSLauncher.
type Options struct {
	// Regions maps region codes to their launch targets. Required, non-empty.
	Regions map[string]RegionTarget
	// ContainerName is the container receiving the env overrides.
	ContainerName string
	CPU           int32
	Memory        int32
	Logger        *slog.Logger

	// clientFactory overrides ECS client construction in tests.
	clientFactory func(ctx context.Context, region string) (runTaskAPI, error)
}

// ECSLauncher starts one audit task per launch request via ECS RunTask on
// Fargate Spot capacity.
type ECSLauncher struct {
	regions       map[string]RegionTarget
	clients       map[string]runTaskAPI
	containerName string
	cpu           int32
	memory        int32
	logger        *slog.Logger
}

var _ core.TaskLauncher = (*ECSLauncher)(nil)

// New constructs an ECSLauncher with one region-scoped client per configured region.
func New(ctx context.Context, opts Options) (*ECSLauncher, error) {
	if len(opts.Regions) == 0 {
		return nil, errors.New("at least one region target is required")
	}
	for region, target := range opts.Regions {
		if target.Cluster == "" || target.TaskDefinition == "" || target.Subnet == "" {
			return nil, fmt.Errorf("incomplete launch target for region %s", region)
		}
	}

	if opts.ContainerName == "" {
		opts.ContainerName = defaultContainerName
	}
	if opts.CPU <= 0 {
		opts.CPU = defaultCPU
	}
	if opts.Memory <= 0 {
		opts.Memory = defaultMemory
	}
	factory := opts.clientFactory
	if factory == nil {
		factory = newECSClient
	}

	clients := make(map[string]runTaskAPI, len(opts.Regions))
	for region := range opts.Regions {
		client, err := factory(ctx, region)
		if err != nil {
			return nil, fmt.Errorf("create ecs client for region %s: %w", region, err)
		}
		clients[region] = client
	}

	return &ECSLauncher{
		regions:       opts.Regions,
		clients:       clients,
		containerName: opts.ContainerName,
		cpu:           opts.CPU,
		memory:        opts.Memory,
		logger:        opts.Logger,
	}, nil
}

//nolint:ireturn // the factory exists so tests can substitute a fake client.
func newECSClient(ctx context.Context, region string) (runTaskAPI, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ecs.NewFromConfig(cfg), nil
}

// Regions returns the configured region codes.
func (l *ECSLauncher) Regions() []string {
	out := make([]string, 0, len(l.regions))
	for region := range l.regions {
		out = append(out, region)
	}
	return out
}

// Launch starts one remote audit execution and returns its task handle.
// Any error, including an empty task list or a reported failure, is a launch
// failure the dispatch layer turns into a failed result.
func (l *ECSLauncher) Launch(ctx context.Context, req core.LaunchRequest) (*core.Launch, error) {
	if req.ResultID == "" {
		return nil, errors.New("result id is required")
	}
	if req.URL == "" {
		return nil, errors.New("url is required")
	}
	if !req.Device.Valid() {
		return nil, fmt.Errorf("invalid device: %q", req.Device)
	}
	target, ok := l.regions[req.Region]
	if !ok {
		return nil, fmt.Errorf("region %s is not configured", req.Region)
	}

	out, err := l.clients[req.Region].RunTask(ctx, l.buildRunTaskInput(req, target))
	if err != nil {
		return nil, fmt.Errorf("run task in %s: %w", req.Region, err)
	}
	if len(out.Failures) > 0 {
		return nil, fmt.Errorf("run task in %s: %s", req.Region, aws.ToString(out.Failures[0].Reason))
	}
	if len(out.Tasks) == 0 || out.Tasks[0].TaskArn == nil {
		return nil, fmt.Errorf("run task in %s: no task started", req.Region)
	}

	launch := &core.Launch{
		Handle: aws.ToString(out.Tasks[0].TaskArn),
		Region: req.Region,
		CPU:    l.cpu,
		Memory: l.memory,
	}

	if l.logger != nil {
		l.logger.DebugContext(ctx, "audit task launched",
			"region", req.Region, "result_id", req.ResultID, "task_arn", launch.Handle)
	}

	return launch, nil
}

func (l *ECSLauncher) buildRunTaskInput(req core.LaunchRequest, target RegionTarget) *ecs.RunTaskInput {
	env := []ecstypes.KeyValuePair{
		{Name: aws.String("URL"), Value: aws.String(req.URL)},
		{Name: aws.String("REGION"), Value: aws.String(req.Region)},
		{Name: aws.String("RESULT_ID"), Value: aws.String(req.ResultID)},
		{Name: aws.String("DEVICE"), Value: aws.String(string(req.Device))},
	}

	return &ecs.RunTaskInput{
		Cluster:        aws.String(target.Cluster),
		TaskDefinition: aws.String(target.TaskDefinition),
		CapacityProviderStrategy: []ecstypes.CapacityProviderStrategyItem{
			{CapacityProvider: aws.String("FARGATE_SPOT"), Weight: 1, Base: 0},
		},
		NetworkConfiguration: &ecstypes.NetworkConfiguration{
			AwsvpcConfiguration: &ecstypes.AwsVpcConfiguration{
				Subnets:        []string{target.Subnet},
				AssignPublicIp: ecstypes.AssignPublicIpEnabled,
			},
		},
		Overrides: &ecstypes.TaskOverride{
			ContainerOverrides: []ecstypes.ContainerOverride{
				{
					Name:        aws.String(l.containerName),
					Environment: env,
					Cpu:         aws.Int32(l.cpu),
					Memory:      aws.Int32(l.memory),
				},
			},
		},
	}
}
