package prr_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/prr"
	"github.com/aretw0/prr/pkg/network"
)

func ExampleEngine_Execute() {
	eng, err := prr.New()
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if _, err := eng.Import(ctx, "demo", strings.NewReader(fixture)); err != nil {
		log.Fatal(err)
	}

	err = eng.Execute(ctx, "demo", func(n *network.Network) error {
		comm, err := n.SendText("111111", "222222", "see you at noon")
		if err != nil {
			return err
		}
		fmt.Println(comm.Kind(), comm.Cost())
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}
	// Output: TEXT 10.00
}
