package main

import "context"
import "flag"
import "os"
import "os/signal"
import "syscall"

import "github.com/sirgallo/flow/pkg/config"
import "github.com/sirgallo/flow/pkg/logger"
import "github.com/sirgallo/flow/pkg/service"


const NAME = "Main"
var Log = clog.NewCustomLog(NAME)


func main() {
	configPath := flag.String("config", "./config.yml", "path to the node yaml configuration")
	flag.Parse()

	conf, confErr := config.LoadConfig(*configPath)
	if confErr != nil { Log.Fatal("unable to load configuration:", confErr.Error()) }

	flowService, svcErr := service.NewFlowService(&service.FlowServiceOpts{ Config: conf })
	if svcErr != nil { Log.Fatal("unable to initialize flow service:", svcErr.Error()) }

	ctx, cancel := context.WithCancel(context.Background())

	flowService.StartFlowService(ctx)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	<- signals

	Log.Info("shutdown signal received, stopping")

	cancel()
	flowService.Close()
}
