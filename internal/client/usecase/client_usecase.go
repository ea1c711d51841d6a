package usecase

import (
	"sort"
	"strings"
	"time"

	"corretora-backend/internal/client/domain"
	"corretora-backend/internal/client/dto"
	"corretora-backend/internal/client/repository"
	"corretora-backend/pkg/fuzzy"

	"go.uber.org/zap"
)

// clientUsecase implements ClientUsecase interface
type clientUsecase struct {
	clientRepo repository.ClientRepository
	policyRepo repository.PolicyRepository
	log        *zap.Logger
}

// NewClientUsecase creates a new instance of clientUsecase
func NewClientUsecase(clientRepo repository.ClientRepository, policyRepo repository.PolicyRepository) ClientUsecase {
	return &clientUsecase{
		clientRepo: clientRepo,
		policyRepo: policyRepo,
		log:        zap.L().Named("client"),
	}
}

func (u *clientUsecase) ListClients(search, status string, page int) (*dto.ClientListResponse, error) {
	if page < 1 {
		page = 1
	}
	filter := domain.ClientFilter{
		Search: strings.TrimSpace(search),
		Status: domain.ClientStatus(status),
		Limit:  dto.PageSize,
		Offset: (page - 1) * dto.PageSize,
	}

	clients, total, err := u.clientRepo.List(filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ClientListResponse{Clients: clients, Total: total, Page: page}
	if total == 0 && filter.Search != "" {
		matched, err := u.fuzzySearch(filter)
		if err != nil {
			return nil, err
		}
		resp.Fuzzy = true
		resp.Total = int64(len(matched))
		resp.Clients = paginate(matched, filter.Offset, filter.Limit)
	}

	if resp.Clients == nil {
		resp.Clients = []*domain.Client{}
	}
	resp.Pages = int((resp.Total + dto.PageSize - 1) / dto.PageSize)
	return resp, nil
}

// fuzzySearch ranks every client by name/email relevance, keeping those
// that fuzzy-match any searchable field.
func (u *clientUsecase) fuzzySearch(filter domain.ClientFilter) ([]*domain.Client, error) {
	all, err := u.clientRepo.FindAll(filter.Status)
	if err != nil {
		return nil, err
	}

	type scored struct {
		client *domain.Client
		score  float64
	}
	var hits []scored
	for _, c := range all {
		if fuzzy.MatchAny(filter.Search, c.Name, c.Email) {
			hits = append(hits, scored{client: c, score: fuzzy.RelevanceScore(filter.Search, c.Name, c.Email)})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].score > hits[j].score })

	out := make([]*domain.Client, len(hits))
	for i, h := range hits {
		out[i] = h.client
	}
	u.log.Debug("fuzzy client search", zap.String("query", filter.Search), zap.Int("hits", len(out)))
	return out, nil
}

func paginate(clients []*domain.Client, offset, limit int) []*domain.Client {
	if offset >= len(clients) {
		return []*domain.Client{}
	}
	end := offset + limit
	if end > len(clients) {
		end = len(clients)
	}
	return clients[offset:end]
}

func (u *clientUsecase) CreateClient(req *dto.ClientRequest) (*domain.Client, error) {
	client := &domain.Client{}
	applyClientRequest(client, req)
	if client.Status == "" {
		client.Status = domain.ClientStatusActive
	}

	if err := u.clientRepo.Create(client); err != nil {
		return nil, err
	}
	u.log.Info("client created", zap.Uint("client_id", client.ID))
	return client, nil
}

func (u *clientUsecase) GetClient(id uint) (*domain.Client, error) {
	client, err := u.clientRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}

	policies, err := u.policyRepo.FindByClient(client.ID)
	if err != nil {
		return nil, err
	}
	client.Policies = policies
	return client, nil
}

func (u *clientUsecase) UpdateClient(id uint, req *dto.ClientRequest) (*domain.Client, error) {
	client, err := u.clientRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}

	applyClientRequest(client, req)
	if err := u.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

func (u *clientUsecase) Exists(id uint) (bool, error) {
	return u.clientRepo.Exists(id)
}

func (u *clientUsecase) Counts() (*domain.StatusCounts, error) {
	return u.clientRepo.CountByStatus()
}

func applyClientRequest(client *domain.Client, req *dto.ClientRequest) {
	client.Name = strings.TrimSpace(req.Name)
	client.Email = strings.TrimSpace(req.Email)
	client.Phone = strings.TrimSpace(req.Phone)
	client.WhatsApp = strings.TrimSpace(req.WhatsApp)
	client.CPFCNPJ = strings.TrimSpace(req.CPFCNPJ)
	client.Address = req.Address
	client.City = req.City
	client.State = strings.ToUpper(req.State)
	client.ZipCode = req.ZipCode
	client.InsuranceType = req.InsuranceType
	client.Notes = req.Notes
	if req.Status != "" {
		client.Status = domain.ClientStatus(req.Status)
	}

	client.BirthDate = nil
	if req.BirthDate != "" {
		if t, err := time.Parse("2006-01-02", req.BirthDate); err == nil {
			client.BirthDate = &t
		}
	}
}
