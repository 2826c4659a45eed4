// Package scheduler carries background work over asynq: periodic discovery
// crawls, website analysis runs, proposal generation and offer dispatch.
package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskDiscoveryCrawl = "discovery.crawl"

const TaskAnalysisRun = "analysis.run"

const TaskProposalGenerate = "proposals.generate"

const TaskOfferDispatch = "outreach.dispatch"

type DiscoveryCrawlPayload struct {
	TenantID string `json:"tenantId"`
}

type AnalysisRunPayload struct {
	TenantID string `json:"tenantId"`
	LeadID   string `json:"leadId"`
}

type ProposalGeneratePayload struct {
	TenantID string `json:"tenantId"`
	JobID    string `json:"jobId"`
}

type OfferDispatchPayload struct {
	TenantID string `json:"tenantId"`
	OfferID  string `json:"offerId"`
}

func NewDiscoveryCrawlTask(payload DiscoveryCrawlPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDiscoveryCrawl, data), nil
}

func ParseDiscoveryCrawlPayload(task *asynq.Task) (DiscoveryCrawlPayload, error) {
	var payload DiscoveryCrawlPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return DiscoveryCrawlPayload{}, err
	}
	return payload, nil
}

func NewAnalysisRunTask(payload AnalysisRunPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskAnalysisRun, data), nil
}

func ParseAnalysisRunPayload(task *asynq.Task) (AnalysisRunPayload, error) {
	var payload AnalysisRunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return AnalysisRunPayload{}, err
	}
	return payload, nil
}

func NewProposalGenerateTask(payload ProposalGeneratePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProposalGenerate, data), nil
}

func ParseProposalGeneratePayload(task *asynq.Task) (ProposalGeneratePayload, error) {
	var payload ProposalGeneratePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return ProposalGeneratePayload{}, err
	}
	return payload, nil
}

func NewOfferDispatchTask(payload OfferDispatchPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOfferDispatch, data), nil
}

func ParseOfferDispatchPayload(task *asynq.Task) (OfferDispatchPayload, error) {
	var payload OfferDispatchPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return OfferDispatchPayload{}, err
	}
	return payload, nil
}
