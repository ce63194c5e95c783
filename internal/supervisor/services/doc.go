// CineBot - Movie Catalog ETL and Recommendation Assistant
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinebot

/*
Package services adapts CineBot components to suture.Service.

  - BootstrapService loads saved model artifacts at startup, optionally runs
    the ETL pipeline against the configured source and builds the configured
    model variant when no artifact exists, then idles until shutdown.
  - HTTPServerService runs the API server and drains it on shutdown.
  - SessionSweeperService evicts expired chat sessions on a ticker.

Every service implements fmt.Stringer so supervisor logs name it.
*/
package services
