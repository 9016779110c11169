package rest

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"clinicbook/internal/service/directory"
)

type personRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age"`
	Email     string `json:"email"`
}

func (r personRequest) input() directory.PersonInput {
	return directory.PersonInput{FirstName: r.FirstName, LastName: r.LastName, Age: r.Age, Email: r.Email}
}

type roomRequest struct {
	RoomName string `json:"roomName"`
}

// listJSON writes 204 for an empty list, matching the appointments listing.
func listJSON[T any](c echo.Context, items []T) error {
	if len(items) == 0 {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, items)
}

func pathUUID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "id must be a UUID")
	}
	return id, nil
}

func (h *handler) listDoctors(c echo.Context) error {
	out, err := h.directory.ListDoctors(c.Request().Context())
	if err != nil {
		return h.fail(c, "doctors list", err)
	}
	return listJSON(c, out)
}

func (h *handler) getDoctor(c echo.Context) error {
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	d, err := h.directory.GetDoctor(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "doctor get", err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *handler) createDoctor(c echo.Context) error {
	var req personRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor body")
	}
	d, err := h.directory.CreateDoctor(c.Request().Context(), req.input())
	if err != nil {
		return h.fail(c, "doctor create", err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *handler) deleteDoctor(c echo.Context) error {
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	if err := h.directory.DeleteDoctor(c.Request().Context(), id); err != nil {
		return h.fail(c, "doctor delete", err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *handler) deleteAllDoctors(c echo.Context) error {
	if err := h.directory.DeleteAllDoctors(c.Request().Context()); err != nil {
		return h.fail(c, "doctors delete all", err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *handler) listPatients(c echo.Context) error {
	out, err := h.directory.ListPatients(c.Request().Context())
	if err != nil {
		return h.fail(c, "patients list", err)
	}
	return listJSON(c, out)
}

func (h *handler) getPatient(c echo.Context) error {
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	p, err := h.directory.GetPatient(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "patient get", err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *handler) createPatient(c echo.Context) error {
	var req personRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient body")
	}
	p, err := h.directory.CreatePatient(c.Request().Context(), req.input())
	if err != nil {
		return h.fail(c, "patient create", err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *handler) deletePatient(c echo.Context) error {
	id, err := pathUUID(c)
	if err != nil {
		return err
	}
	if err := h.directory.DeletePatient(c.Request().Context(), id); err != nil {
		return h.fail(c, "patient delete", err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *handler) deleteAllPatients(c echo.Context) error {
	if err := h.directory.DeleteAllPatients(c.Request().Context()); err != nil {
		return h.fail(c, "patients delete all", err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *handler) listRooms(c echo.Context) error {
	out, err := h.directory.ListRooms(c.Request().Context())
	if err != nil {
		return h.fail(c, "rooms list", err)
	}
	return listJSON(c, out)
}

func (h *handler) getRoom(c echo.Context) error {
	r, err := h.directory.GetRoom(c.Request().Context(), c.Param("roomName"))
	if err != nil {
		return h.fail(c, "room get", err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *handler) createRoom(c echo.Context) error {
	var req roomRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid room body")
	}
	r, err := h.directory.CreateRoom(c.Request().Context(), req.RoomName)
	if err != nil {
		return h.fail(c, "room create", err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *handler) deleteRoom(c echo.Context) error {
	if err := h.directory.DeleteRoom(c.Request().Context(), c.Param("roomName")); err != nil {
		return h.fail(c, "room delete", err)
	}
	return c.NoContent(http.StatusOK)
}

func (h *handler) deleteAllRooms(c echo.Context) error {
	if err := h.directory.DeleteAllRooms(c.Request().Context()); err != nil {
		return h.fail(c, "rooms delete all", err)
	}
	return c.NoContent(http.StatusOK)
}
