package order

import (
	"github.com/jhoicas/abs-rental-api/internal/application/dto"
	"github.com/jhoicas/abs-rental-api/internal/domain/access"
	"github.com/jhoicas/abs-rental-api/internal/domain/entity"
	"github.com/jhoicas/abs-rental-api/internal/domain/pricing"
	"github.com/jhoicas/abs-rental-api/internal/domain/workflow"
)

const dateLayout = "2006-01-02"

// ToResponse arma la salida HTTP de un pedido con solo las etapas visibles para role.
func ToResponse(o *entity.Order, role string) dto.OrderResponse {
	out := dto.OrderResponse{
		ID:                       o.ID,
		UserEmail:                o.UserEmail,
		AssignedCoordinatorEmail: o.AssignedCoordinatorEmail,
		Status:                   string(o.Status),
		OrderType:                string(o.OrderType),
		StartDate:                o.StartDate.Format(dateLayout),
		EndDate:                  o.EndDate.Format(dateLayout),
		EventDays:                pricing.EventDays(o.StartDate, o.EndDate),
		OriginLocation:           o.OriginLocation,
		DestinationLocation:      o.DestinationLocation,
		TotalAmount:              o.TotalAmount,
		Items:                    make([]dto.OrderItemResponse, 0, len(o.Items)),
		Workflow:                 make(map[string]dto.StageResponse),
		CreatedAt:                o.CreatedAt,
		UpdatedAt:                o.UpdatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse{
			ProductID: it.ID,
			Name:      it.Name,
			Category:  it.Category,
			Quantity:  it.Quantity,
			PriceRent: it.PriceRent,
			FileURL:   it.FileURL,
		})
	}
	for _, key := range access.VisibleStages(role) {
		if st, ok := o.Workflow[key]; ok && st != nil {
			out.Workflow[string(key)] = toStageResponse(st)
		}
	}
	return out
}

// ToListResponse arma un listado paginado.
func ToListResponse(orders []*entity.Order, role string, limit, offset int) dto.OrderListResponse {
	out := dto.OrderListResponse{
		Items: make([]dto.OrderResponse, 0, len(orders)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, o := range orders {
		out.Items = append(out.Items, ToResponse(o, role))
	}
	return out
}

func toStageResponse(st *entity.StageData) dto.StageResponse {
	out := dto.StageResponse{
		Status:       string(st.Status),
		Timestamp:    st.Timestamp,
		Signature:    toSignatureDTO(st.Signature),
		ReceivedBy:   toSignatureDTO(st.ReceivedBy),
		ItemChecks:   make(map[string]dto.ItemCheckDTO, len(st.ItemChecks)),
		Photos:       append([]string{}, st.Photos...),
		Files:        append([]string{}, st.Files...),
		GeneralNotes: st.GeneralNotes,
		NotesHistory: make([]dto.NoteDTO, 0, len(st.NotesHistory)),
	}
	for id, c := range st.ItemChecks {
		out.ItemChecks[id] = dto.ItemCheckDTO{Verified: c.Verified, Notes: c.Notes}
	}
	for _, n := range st.NotesHistory {
		out.NotesHistory = append(out.NotesHistory, dto.NoteDTO(n))
	}
	return out
}

func toSignatureDTO(sig *entity.Signature) *dto.SignatureDTO {
	if sig == nil {
		return nil
	}
	ts := sig.Timestamp
	return &dto.SignatureDTO{
		Name:          sig.Name,
		DataURL:       sig.DataURL,
		Location:      sig.Location,
		Timestamp:     &ts,
		EvidencePhoto: sig.EvidencePhoto,
	}
}

// UpdateFromRequest traduce la petición HTTP al lote de cambios del motor de etapas.
func UpdateFromRequest(in dto.UpdateStageRequest) workflow.Update {
	u := workflow.Update{
		AddPhotos:    append([]string(nil), in.AddPhotos...),
		AddFiles:     append([]string(nil), in.AddFiles...),
		GeneralNotes: in.GeneralNotes,
		Note:         in.Note,
		Signature:    fromSignatureDTO(in.Signature),
		ReceivedBy:   fromSignatureDTO(in.ReceivedBy),
	}
	if len(in.ItemChecks) > 0 {
		u.ItemChecks = make(map[string]workflow.ItemUpdate, len(in.ItemChecks))
		for id, c := range in.ItemChecks {
			u.ItemChecks[id] = workflow.ItemUpdate{Verified: c.Verified, Notes: c.Notes}
		}
	}
	return u
}

func fromSignatureDTO(in *dto.SignatureDTO) *entity.Signature {
	if in == nil {
		return nil
	}
	sig := &entity.Signature{
		Name:          in.Name,
		DataURL:       in.DataURL,
		Location:      in.Location,
		EvidencePhoto: in.EvidencePhoto,
	}
	if in.Timestamp != nil {
		sig.Timestamp = in.Timestamp.UTC()
	}
	return sig
}
