//
// Copyright (c) 2023, 2026 Nimbus Data Systems, Inc. All rights reserved.
//
// Licensed under the Universal Permissive License v 1.0 as shown at
//  https://opensource.org/licenses/UPL
//

/*
This is the official Go SDK for the Nimbus NoSQL database, usable with both
the Nimbus cloud service and on-premise Nimbus servers.

To get started, create a nimbusdb.Config with the service endpoint and an
authorization provider, then create a client with nimbusdb.NewClient. All
table management and data operations are methods on the client.

See the examples directory for a walkthrough that creates a table, writes
and reads rows, runs queries and drops the table.
*/
package nimbus
