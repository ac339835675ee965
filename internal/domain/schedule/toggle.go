package schedule

import "time"

// ToggleDoseTaken devuelve un slice nuevo con el estado pedido para key.
// taken=true agrega un registro con now si no existe (si existe, se conserva el
// original); taken=false lo quita. Repetir el mismo estado no cambia nada.
func ToggleDoseTaken(records []TakenRecord, key DoseKey, taken bool, now time.Time) []TakenRecord {
	out := make([]TakenRecord, 0, len(records)+1)
	found := false

	for _, r := range records {
		if r.Key() != key {
			out = append(out, r)
			continue
		}
		// Duplicados (datos viejos) se colapsan en uno.
		if taken && !found {
			out = append(out, r)
			found = true
		}
	}

	if taken && !found {
		out = append(out, TakenRecord{
			MedicineID: key.MedicineID,
			Date:       key.Date,
			TimeSlot:   key.TimeSlot,
			TakenAt:    now,
		})
	}
	return out
}
