package gateway

import (
	"context"
	"fmt"
	"net/http"
)

type doctorsEnvelope struct {
	Doctors []Doctor `json:"doctors"`
}

// ListDoctors returns every doctor. On failure it returns an empty listing
// and the error.
func (c *Client) ListDoctors(ctx context.Context) ([]Doctor, error) {
	return c.fetchDoctors(ctx, "list_doctors", "/doctor")
}

// FilterDoctors returns doctors matching f. A filter with every dimension
// absent issues the same request as ListDoctors.
func (c *Client) FilterDoctors(ctx context.Context, f DoctorFilter) ([]Doctor, error) {
	path, err := doctorFilterPath(f, c.encoding)
	if err != nil {
		return []Doctor{}, err
	}
	if f.IsEmpty() {
		return c.fetchDoctors(ctx, "list_doctors", path)
	}
	return c.fetchDoctors(ctx, "filter_doctors", path)
}

func (c *Client) fetchDoctors(ctx context.Context, op, path string) ([]Doctor, error) {
	var env doctorsEnvelope
	if err := c.read(ctx, op, path, "", &env); err != nil {
		return []Doctor{}, err
	}
	if env.Doctors == nil {
		return []Doctor{}, nil
	}
	return env.Doctors, nil
}

// AddDoctor creates a doctor. Requires an admin token.
func (c *Client) AddDoctor(ctx context.Context, token string, doctor DoctorInput) Result {
	return c.mutate(ctx, "add_doctor", http.MethodPost, "/doctor/"+seg(token), token, doctor)
}

// UpdateDoctor patches an existing doctor identified by doctor.ID. Requires an
// admin token.
func (c *Client) UpdateDoctor(ctx context.Context, token string, doctor DoctorInput) Result {
	if doctor.ID == 0 {
		return failure("doctor id is required for an update")
	}
	doctor.Password = ""
	return c.mutate(ctx, "update_doctor", http.MethodPatch, "/doctor/"+seg(token), token, doctor)
}

// DeleteDoctor removes the doctor with id. Requires an admin token.
func (c *Client) DeleteDoctor(ctx context.Context, token string, id int64) Result {
	path := fmt.Sprintf("/doctor/%d/%s", id, seg(token))
	return c.mutate(ctx, "delete_doctor", http.MethodDelete, path, token, nil)
}
