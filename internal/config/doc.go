// Package config provides configuration management for dockctl.
//
// Configuration is loaded from multiple YAML sources and merged in a fixed
// order, with later sources overriding earlier ones:
//
//  1. Default Configuration (embedded in binary)
//  2. User Configuration (~/.config/dockctl/config.yaml)
//  3. Project Configuration (dockctl.yml, searched upwards from the working
//     directory unless given explicitly)
//
// Each layer is decoded on top of the previous one, so a key that a file
// does not mention keeps its earlier value. Services are replaced per key.
// The directory that holds the project file becomes the project directory;
// nothing changes the process working directory.
//
// # Project File
//
//	projectName: shop
//	composeFiles: [docker-compose.yml]
//	services:
//	  web:
//	    displayName: Web Server
//	    url: "http://{URL}"
//	  mailcatcher:
//	    displayName: Mailcatcher
//	    url: "http://{URL}"
//	    extraPorts: [25]
//	proxy:
//	  enabled: true
//	  port: 8080
//	networkBlock:
//	  - container: php
//	    ports: [25, 465, 587]
//
// Services are enabled unless they set enabled: false. The fully layered
// result is validated once; after LoadConfig returns it is read-only.
package config
