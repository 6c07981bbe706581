// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics defines the Prometheus collectors of the service on a
// private registry, served by Handler at GET /metrics.
package metrics
