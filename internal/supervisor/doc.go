// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

/*
Package supervisor runs CineBot's long-lived services under a suture v4 tree.

# Overview

	RootSupervisor ("cinebot")
	├── DataSupervisor ("data-layer")
	│   └── BootstrapService (load artifacts, optional pipeline run and model build)
	└── APISupervisor ("api-layer")
	    ├── HTTPServerService
	    └── SessionSweeperService

Each layer counts failures on its own, so a misbehaving bootstrap cannot
exhaust the restart budget of the HTTP server.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewBootstrapService(engine, runner, bootCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	tree.AddAPIService(services.NewSessionSweeperService(sessions, time.Minute))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}

Supervisor events (start, failure, backoff) are logged through sutureslog,
bridged into zerolog by logging.NewSlogLogger.

# Configuration

TreeConfig zero values fall back to DefaultTreeConfig: a failure threshold
of 5, a decay of 30 seconds, a 15 second backoff and a 10 second shutdown
timeout.
*/
package supervisor
