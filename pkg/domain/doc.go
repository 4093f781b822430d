/*
Package domain contains the core value types and pure state machines of the prr network.

It defines the pieces that carry no identity of their own: money amounts, the terminal
connectivity state machine, the client tariff-tier state machine, tariff plans, notifications
and the error taxonomy. The package is kept pure and free of I/O; entities with identity
(clients, terminals, communications) live in package network, which drives these machines.

# Key Types

  - State: the terminal connectivity state (Idle, Silent, Busy, Off). Busy carries the
    resting state it will return to.
  - Tier: the client billing tier (Normal, Gold, Platinum) with its behavioural streaks.
  - TariffPlan: cost functions for text, voice and video communications, one per tier.
  - Notification: a terminal transition delivered to clients that failed to reach it.
  - Error: a failed operation, classified by category sentinels such as ErrUnreachable.
*/
package domain
