// Package service implements the agent-facing ordering operations on top
// of the session, the classifier, the estimator and the guard pipeline.
// Every operation returns a structured result with a stable code on
// failure; operations never panic on bad agent input.
package service

import (
	"errors"

	contractx "github.com/marova/sliceline/ordering/contract"
	guardx "github.com/marova/sliceline/ordering/guard"
	pricingx "github.com/marova/sliceline/ordering/pricing"
	statex "github.com/marova/sliceline/ordering/state"
	configx "github.com/marova/sliceline/pkg/config"
)

const maxStoreResults = 5

type Service struct {
	session   *statex.Session
	profile   *configx.OrderProfile
	client    contractx.VendorOrderingClient
	pipeline  *guardx.Pipeline
	estimator pricingx.Config
}

func New(
	session *statex.Session,
	profile *configx.OrderProfile,
	client contractx.VendorOrderingClient,
	pipeline *guardx.Pipeline,
	estimator pricingx.Config,
) (*Service, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}
	if profile == nil {
		return nil, errors.New("order profile is required")
	}
	if client == nil {
		return nil, errors.New("vendor client is required")
	}
	if pipeline == nil {
		return nil, errors.New("guard pipeline is required")
	}

	return &Service{
		session:   session,
		profile:   profile,
		client:    client,
		pipeline:  pipeline,
		estimator: estimator,
	}, nil
}

func (s *Service) Session() *statex.Session {
	return s.session
}
