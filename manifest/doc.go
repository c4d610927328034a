// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package manifest builds route tables from declarative documents.
//
// A manifest lists routes and nested groups in YAML, TOML or JSON. Each
// route names a handler that is resolved through a [Handlers] registry:
//
//	prefix: /api
//	defaults:
//	  tags: [public]
//	routes:
//	  - methods: [GET]
//	    path: /health
//	    handler: health
//	groups:
//	  - prefix: /users
//	    name: users
//	    routes:
//	      - methods: GET
//	        path: "/{id:int}"
//	        handler: users.get
//	        name: get-user
//
// A [Source] serves the endpoints of the current manifest and rebuilds
// them on [Source.Reload]. Loaders that implement [Watcher] drive reloads
// from file system events or Consul blocking queries.
package manifest
