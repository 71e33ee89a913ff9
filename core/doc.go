// Copyright 2025, the SEPET contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package core talks to the SEPET scheduling backend and parses its responses into structured data.

Every request is scoped to a tenant through the X-Tenant-ID header. The tenant
is read once per request, so changing it with SetTenantID never affects a
request that is already in flight.

You may use this package independently as follows:

	package main

	import (
		"context"
		"fmt"

		"codeberg.org/sepet/sepet/core"
		"codeberg.org/sepet/sepet/core/requests"
	)

	func main() {
		transport, err := requests.NewTransport(requests.Options{})
		if err != nil {
			panic(err)
		}

		client := core.NewClient("http://localhost:8000/api", transport)

		appointments, err := client.ListAppointments(context.Background())
		if err != nil {
			panic(err)
		}

		fmt.Println(appointments)
	}
*/
package core
