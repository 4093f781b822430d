package http

import (
	"net/http"
	"strconv"

	"github.com/aretw0/prr/pkg/domain"
	"github.com/aretw0/prr/pkg/network"
	"github.com/go-chi/chi/v5"
)

// exec runs fn on the network named in the path and writes status and the value fn
// returned, or the error.
func (s *Server) exec(w http.ResponseWriter, r *http.Request, status int, fn func(*network.Network) (any, error)) {
	var out any
	err := s.Engine.Execute(r.Context(), chi.URLParam(r, "network"), func(n *network.Network) error {
		var err error
		out, err = fn(n)
		return err
	})
	if err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	if out == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, status, out)
}

// Import handles POST /networks/{network}/import. The body is the line-oriented import format.
func (s *Server) Import(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportSize)
	stats, err := s.Engine.Import(r.Context(), chi.URLParam(r, "network"), body)
	if err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GetTotals handles GET /networks/{network}/totals.
func (s *Server) GetTotals(w http.ResponseWriter, r *http.Request) {
	s.exec(w, r, http.StatusOK, func(n *network.Network) (any, error) {
		return TotalsResponse{Payments: n.TotalPayments(), Debts: n.TotalDebts()}, nil
	})
}

// ListClients handles GET /networks/{network}/clients[?debt=with|without].
func (s *Server) ListClients(w http.ResponseWriter, r *http.Request) {
	debt := r.URL.Query().Get("debt")
	s.exec(w, r, http.StatusOK, func(n *network.Network) (any, error) {
		var clients []*network.Client
		switch debt {
		case "":
			clients = n.Clients()
		case "with":
			clients = n.ClientsWithDebts()
		case "without":
			clients = n.ClientsWithoutDebts()
		default:
			return nil, badRequest("debt must be with or without, got %q", debt)
		}
		return mapAll(clients, clientResponse), nil
	})
}

// RegisterClient handles POST /networks/{network}/clients.
func (s *Server) RegisterClient(w http.ResponseWriter, r *http.Request) {
	var req RegisterClientRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	s.exec(w, r, http.StatusCreated, func(n *network.Network) (any, error) {
		if err := n.RegisterClient(req.Key, req.Name, req.TaxID); err != nil {
			return nil, err
		}
		c, err := n.Client(req.Key)
		if err != nil {
			return nil, err
		}
		return clientResponse(c), nil
	})
}

// GetClient handles GET /networks/{network}/clients/{key}.
func (s *Server) GetClient(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	s.exec(w, r, http.StatusOK, func(n *network.Network) (any, error) {
		c, err := n.Client(key)
		if err != nil {
			return nil, err
		}
		return clientResponse(c), nil
	})
}

// ClientCommunications handles GET /networks/{network}/clients/{key}/communications
// [?direction=from|to]. The default direction is from.
func (s *Server) ClientCommunications(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	direction := r.URL.Query().Get("direction")
	s.exec(w, r, http.StatusOK, func(n *network.Network) (any, error) {
		var (
			comms []*network.Communication
			err   error
		)
		switch direction {
		case "", "from":
			comms, err = n.CommunicationsFromClient(key)
		case "to":
			comms, err = n.CommunicationsToClient(key)
		default:
			return nil, badRequest("direction must be from or to, got %q", direction)
		}
		if err != nil {
			return nil, err
		}
		return mapAll(comms, communicationResponse), nil
	})
}

// Notifications handles GET /networks/{network}/clients/{key}/notifications.
// Delivered notifications leave the queue.
func (s *Server) Notifications(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	s.exec(w, r, http.StatusOK, func(n *network.Network) (any, error) {
		out, err := n.Notifications(key)
		if err != nil {
			return nil, err
		}
		return nonNil(out), nil
	})
}

func (s *Server) EnableNotifications(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	s.exec(w, r, http.StatusNoContent, func(n *network.Network) (any, error) {
		return nil, n.EnableNotifications(key)
	})
}

func (s *Server) DisableNotifications(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	s.exec(w, r, http.StatusNoContent, func(n *network.Network) (any, error) {
		return nil, n.DisableNotifications(key)
	})
}

// ListTerminals handles GET /networks/{network}/terminals[?unused=true|positive=true].
func (s *Server) ListTerminals(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unused, err := parseBoolQuery(q.Get("unused"))
	if err != nil {
		s.writeDomainErr(w, r, badRequest("unused: %v", err))
		return
	}
	positive, err := parseBoolQuery(q.Get("positive"))
	if err != nil {
		s.writeDomainErr(w, r, badRequest("positive: %v", err))
		return
	}
	s.exec(w, r, http.StatusOK, func(n *network.Network) (any, error) {
		var terms []*network.Terminal
		switch {
		case unused && positive:
			return nil, badRequest("unused and positive cannot be combined")
		case unused:
			terms = n.UnusedTerminals()
		case positive:
			terms = n.TerminalsWithPositiveBalance()
		default:
			terms = n.Terminals()
		}
		return mapAll(terms, terminalResponse), nil
	})
}

// RegisterTerminal handles POST /networks/{network}/terminals.
func (s *Server) RegisterTerminal(w http.ResponseWriter, r *http.Request) {
	var req RegisterTerminalRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	s.exec(w, r, http.StatusCreated, func(n *network.Network) (any, error) {
		if err := n.RegisterTerminal(req.Kind, req.Key, req.Client, req.State); err != nil {
			return nil, err
		}
		t, err := n.Terminal(req.Key)
		if err != nil {
			return nil, err
		}
		return terminalResponse(t), nil
	})
}

// GetTerminal handles GET /networks/{network}/terminals/{key}.
func (s *Server) GetTerminal(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	s.exec(w, r, http.StatusOK, func(n *network.Network) (any, error) {
		t, err := n.Terminal(key)
		if err != nil {
			return nil, err
		}
		return terminalResponse(t), nil
	})
}

// AddFriends handles POST /networks/{network}/terminals/{key}/friends.
func (s *Server) AddFriends(w http.ResponseWriter, r *http.Request) {
	var req FriendsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	key := chi.URLParam(r, "key")
	s.exec(w, r, http.StatusOK, func(n *network.Network) (any, error) {
		if err := n.RegisterFriends(key, req.Friends...); err != nil {
			return nil, err
		}
		t, err := n.Terminal(key)
		if err != nil {
			return nil, err
		}
		return terminalResponse(t), nil
	})
}

// RemoveFriend handles DELETE /networks/{network}/terminals/{key}/friends/{friend}.
func (s *Server) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	key, friend := chi.URLParam(r, "key"), chi.URLParam(r, "friend")
	s.exec(w, r, http.StatusNoContent, func(n *network.Network) (any, error) {
		return nil, n.RemoveFriend(key, friend)
	})
}

func (s *Server) TurnOn(w http.ResponseWriter, r *http.Request) {
	s.command(w, r, (*network.Network).TurnOn)
}

func (s *Server) TurnOff(w http.ResponseWriter, r *http.Request) {
	s.command(w, r, (*network.Network).TurnOff)
}

func (s *Server) Silence(w http.ResponseWriter, r *http.Request) {
	s.command(w, r, (*network.Network).Silence)
}

// command applies a terminal state command and returns the terminal.
func (s *Server) command(w http.ResponseWriter, r *http.Request, cmd func(*network.Network, string) error) {
	key := chi.URLParam(r, "key")
	s.exec(w, r, http.StatusOK, func(n *network.Network) (any, error) {
		if err := cmd(n, key); err != nil {
			return nil, err
		}
		t, err := n.Terminal(key)
		if err != nil {
			return nil, err
		}
		return terminalResponse(t), nil
	})
}

// SendText handles POST /networks/{network}/terminals/{key}/text.
func (s *Server) SendText(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	key := chi.URLParam(r, "key")
	s.exec(w, r, http.StatusCreated, func(n *network.Network) (any, error) {
		comm, err := n.SendText(key, req.To, req.Message)
		if err != nil {
			return nil, err
		}
		return communicationResponse(comm), nil
	})
}

// StartCall handles POST /networks/{network}/terminals/{key}/calls.
func (s *Server) StartCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	kind, err := domain.ParseCommKind(req.Kind)
	if err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	key := chi.URLParam(r, "key")
	s.exec(w, r, http.StatusCreated, func(n *network.Network) (any, error) {
		comm, err := n.StartInteractive(key, req.To, kind)
		if err != nil {
			return nil, err
		}
		return communicationResponse(comm), nil
	})
}

// EndCall handles POST /networks/{network}/terminals/{key}/calls/end.
func (s *Server) EndCall(w http.ResponseWriter, r *http.Request) {
	var req EndCallRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	key := chi.URLParam(r, "key")
	s.exec(w, r, http.StatusOK, func(n *network.Network) (any, error) {
		cost, err := n.EndInteractive(key, req.Duration)
		if err != nil {
			return nil, err
		}
		return EndCallResponse{Cost: cost}, nil
	})
}

// Pay handles POST /networks/{network}/terminals/{key}/payments.
func (s *Server) Pay(w http.ResponseWriter, r *http.Request) {
	var req PayRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeDomainErr(w, r, err)
		return
	}
	key := chi.URLParam(r, "key")
	s.exec(w, r, http.StatusOK, func(n *network.Network) (any, error) {
		if err := n.Pay(key, req.CommID); err != nil {
			return nil, err
		}
		c, err := n.Communication(req.CommID)
		if err != nil {
			return nil, err
		}
		return communicationResponse(c), nil
	})
}

// ListCommunications handles GET /networks/{network}/communications.
func (s *Server) ListCommunications(w http.ResponseWriter, r *http.Request) {
	s.exec(w, r, http.StatusOK, func(n *network.Network) (any, error) {
		return mapAll(n.Communications(), communicationResponse), nil
	})
}

// GetCommunication handles GET /networks/{network}/communications/{id}.
func (s *Server) GetCommunication(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainErr(w, r, badRequest("communication id must be a number"))
		return
	}
	s.exec(w, r, http.StatusOK, func(n *network.Network) (any, error) {
		c, err := n.Communication(id)
		if err != nil {
			return nil, err
		}
		return communicationResponse(c), nil
	})
}

func parseBoolQuery(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
