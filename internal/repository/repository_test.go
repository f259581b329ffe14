package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/testutil"
	"github.com/yukikurage/task-manager/internal/utils"
	"gorm.io/gorm"
)

type RepositoryTestSuite struct {
	suite.Suite
	ctx       context.Context
	db        *gorm.DB
	positions repository.PositionRepository
	taskTypes repository.TaskTypeRepository
	employees repository.EmployeeRepository
	tasks     repository.TaskRepository
}

func (suite *RepositoryTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.db = testutil.NewSQLiteDB(suite.T())
	suite.positions = repository.NewPositionRepository(suite.db)
	suite.taskTypes = repository.NewTaskTypeRepository(suite.db)
	suite.employees = repository.NewEmployeeRepository(suite.db)
	suite.tasks = repository.NewTaskRepository(suite.db)
}

func (suite *RepositoryTestSuite) createPosition(name string) *models.Position {
	position := &models.Position{Name: name}
	suite.Require().NoError(suite.positions.Create(suite.ctx, position))
	return position
}

func (suite *RepositoryTestSuite) createTaskType(name string) *models.TaskType {
	taskType := &models.TaskType{Name: name}
	suite.Require().NoError(suite.taskTypes.Create(suite.ctx, taskType))
	return taskType
}

func (suite *RepositoryTestSuite) createEmployee(username string, positionID uint64) *models.Employee {
	employee := &models.Employee{
		Username:     username,
		PasswordHash: "hashedpassword",
		FirstName:    "Test",
		LastName:     "User",
		PositionID:   positionID,
	}
	suite.Require().NoError(suite.employees.Create(suite.ctx, employee))
	return employee
}

func (suite *RepositoryTestSuite) createTask(name, deadline string, completed bool, taskTypeID uint64, assignees ...uint64) *models.Task {
	d, err := time.Parse("2006-01-02", deadline)
	suite.Require().NoError(err)

	task := &models.Task{
		Name:        name,
		Deadline:    d,
		IsCompleted: completed,
		Priority:    models.PriorityMedium,
		TaskTypeID:  taskTypeID,
	}
	suite.Require().NoError(suite.tasks.Create(suite.ctx, task, assignees))
	return task
}

func (suite *RepositoryTestSuite) countAssignments(where string, args ...any) int64 {
	var count int64
	suite.Require().NoError(suite.db.Model(&models.TaskAssignment{}).Where(where, args...).Count(&count).Error)
	return count
}

func firstPage() utils.PaginationParams {
	return utils.NewPaginationParams(1, 10)
}

func (suite *RepositoryTestSuite) TestDeleteAfterCreateIsNotFound() {
	position := suite.createPosition("Intern")

	suite.Require().NoError(suite.positions.Delete(suite.ctx, position.ID))

	_, err := suite.positions.FindByID(suite.ctx, position.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *RepositoryTestSuite) TestDeleteUnknownID() {
	suite.ErrorIs(suite.positions.Delete(suite.ctx, 999), gorm.ErrRecordNotFound)
	suite.ErrorIs(suite.taskTypes.Delete(suite.ctx, 999), gorm.ErrRecordNotFound)
	suite.ErrorIs(suite.employees.Delete(suite.ctx, 999), gorm.ErrRecordNotFound)
	suite.ErrorIs(suite.tasks.Delete(suite.ctx, 999), gorm.ErrRecordNotFound)
}

func (suite *RepositoryTestSuite) TestPositionDeleteRefusedWhileHeld() {
	position := suite.createPosition("Developer")
	suite.createEmployee("alice", position.ID)

	err := suite.positions.Delete(suite.ctx, position.ID)
	suite.ErrorIs(err, repository.ErrPositionReferenced)

	found, err := suite.positions.FindByID(suite.ctx, position.ID)
	suite.Require().NoError(err)
	suite.Equal("Developer", found.Name)
}

func (suite *RepositoryTestSuite) TestTaskTypeDeleteCascadesToTasks() {
	position := suite.createPosition("Developer")
	employee := suite.createEmployee("alice", position.ID)
	bug := suite.createTaskType("Bug")
	feature := suite.createTaskType("Feature")

	doomed := suite.createTask("Fix login", "2024-01-10", false, bug.ID, employee.ID)
	kept := suite.createTask("Add search", "2024-01-11", false, feature.ID, employee.ID)

	suite.Require().NoError(suite.taskTypes.Delete(suite.ctx, bug.ID))

	_, err := suite.tasks.FindByID(suite.ctx, doomed.ID)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
	suite.Zero(suite.countAssignments("task_id = ?", doomed.ID))

	_, err = suite.tasks.FindByID(suite.ctx, kept.ID)
	suite.NoError(err)
	suite.Equal(int64(1), suite.countAssignments("task_id = ?", kept.ID))
}

func (suite *RepositoryTestSuite) TestEmployeeDeleteKeepsTasks() {
	position := suite.createPosition("Developer")
	employee := suite.createEmployee("alice", position.ID)
	taskType := suite.createTaskType("Bug")
	task := suite.createTask("Fix login", "2024-01-10", false, taskType.ID, employee.ID)

	suite.Require().NoError(suite.employees.Delete(suite.ctx, employee.ID))

	_, err := suite.tasks.FindByID(suite.ctx, task.ID)
	suite.NoError(err)
	suite.Zero(suite.countAssignments("employee_id = ?", employee.ID))
}

func (suite *RepositoryTestSuite) TestListFiltersCaseInsensitively() {
	suite.createPosition("Intern")
	suite.createPosition("Senior Data Analyst")

	positions, total, err := suite.positions.List(suite.ctx, repository.ListFilter{
		Search:     "a",
		Pagination: firstPage(),
	})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(positions, 1)
	suite.Equal("Senior Data Analyst", positions[0].Name)

	positions, _, err = suite.positions.List(suite.ctx, repository.ListFilter{
		Search:     "INTERN",
		Pagination: firstPage(),
	})
	suite.Require().NoError(err)
	suite.Require().Len(positions, 1)
	suite.Equal("Intern", positions[0].Name)
}

func (suite *RepositoryTestSuite) TestListBlankSearchReturnsAll() {
	suite.createPosition("Intern")
	suite.createPosition("Senior Data Analyst")

	positions, total, err := suite.positions.List(suite.ctx, repository.ListFilter{
		Search:     "   ",
		Pagination: firstPage(),
	})
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(positions, 2)
}

func (suite *RepositoryTestSuite) TestListKeepsSurroundingSpaces() {
	suite.createPosition("Developer")
	suite.createPosition("Senior Developer")

	positions, total, err := suite.positions.List(suite.ctx, repository.ListFilter{
		Search:     " dev",
		Pagination: firstPage(),
	})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(positions, 1)
	suite.Equal("Senior Developer", positions[0].Name)
}

func (suite *RepositoryTestSuite) TestConcurrentToggleAssignmentKeepsOneEdge() {
	position := suite.createPosition("Developer")
	employee := suite.createEmployee("alice", position.ID)
	taskType := suite.createTaskType("Bug")
	task := suite.createTask("Fix login", "2024-01-10", false, taskType.ID)

	const togglers = 9
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		assigned int
		errs     []error
	)
	for range togglers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := suite.tasks.ToggleAssignment(suite.ctx, employee.ID, task.ID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if ok {
				assigned++
			}
		}()
	}
	wg.Wait()

	suite.Require().Empty(errs)
	edges := suite.countAssignments("task_id = ? AND employee_id = ?", task.ID, employee.ID)
	suite.LessOrEqual(edges, int64(1))
	// every removal follows an insert, so the surviving edge count is the difference
	suite.Equal(int64(assigned-(togglers-assigned)), edges)
}

func (suite *RepositoryTestSuite) TestListEscapesWildcards() {
	suite.createTaskType("100% done")
	suite.createTaskType("1000 done")

	taskTypes, _, err := suite.taskTypes.List(suite.ctx, repository.ListFilter{
		Search:     "0%",
		Pagination: firstPage(),
	})
	suite.Require().NoError(err)
	suite.Require().Len(taskTypes, 1)
	suite.Equal("100% done", taskTypes[0].Name)

	taskTypes, _, err = suite.taskTypes.List(suite.ctx, repository.ListFilter{
		Search:     "_",
		Pagination: firstPage(),
	})
	suite.Require().NoError(err)
	suite.Empty(taskTypes)
}

func (suite *RepositoryTestSuite) TestEmployeeListFiltersByUsername() {
	position := suite.createPosition("Developer")
	suite.createEmployee("alice", position.ID)
	suite.createEmployee("bob", position.ID)

	employees, total, err := suite.employees.List(suite.ctx, repository.ListFilter{
		Search:     "Ali",
		Pagination: firstPage(),
	})
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(employees, 1)
	suite.Equal("alice", employees[0].Username)
	suite.Equal("Developer", employees[0].Position.Name)
}

func (suite *RepositoryTestSuite) TestTaskListDefaultOrder() {
	taskType := suite.createTaskType("Bug")
	late := suite.createTask("late", "2023-05-05", false, taskType.ID)
	done := suite.createTask("done", "2015-01-05", true, taskType.ID)
	early := suite.createTask("early", "2022-12-01", false, taskType.ID)

	tasks, _, err := suite.tasks.List(suite.ctx, repository.ListFilter{Pagination: firstPage()})
	suite.Require().NoError(err)
	suite.Require().Len(tasks, 3)
	suite.Equal([]uint64{early.ID, late.ID, done.ID}, []uint64{tasks[0].ID, tasks[1].ID, tasks[2].ID})
	suite.Equal("Bug", tasks[0].TaskType.Name)
}

func (suite *RepositoryTestSuite) TestTaskListPagination() {
	taskType := suite.createTaskType("Bug")
	for i := 1; i <= 15; i++ {
		suite.createTask("task", time.Date(2024, 1, i, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), false, taskType.ID)
	}

	tasks, total, err := suite.tasks.List(suite.ctx, repository.ListFilter{
		Pagination: utils.NewPaginationParams(2, 10),
	})
	suite.Require().NoError(err)
	suite.Equal(int64(15), total)
	suite.Len(tasks, 5)

	tasks, total, err = suite.tasks.List(suite.ctx, repository.ListFilter{
		Pagination: utils.NewPaginationParams(3, 10),
	})
	suite.Require().NoError(err)
	suite.Equal(int64(15), total)
	suite.NotNil(tasks)
	suite.Empty(tasks)
}

func (suite *RepositoryTestSuite) TestToggleAssignmentRoundTrip() {
	position := suite.createPosition("Developer")
	employee := suite.createEmployee("alice", position.ID)
	taskType := suite.createTaskType("Bug")
	task := suite.createTask("Fix login", "2024-01-10", false, taskType.ID)

	assigned, err := suite.tasks.ToggleAssignment(suite.ctx, employee.ID, task.ID)
	suite.Require().NoError(err)
	suite.True(assigned)
	suite.Equal(int64(1), suite.countAssignments("task_id = ? AND employee_id = ?", task.ID, employee.ID))

	assigned, err = suite.tasks.ToggleAssignment(suite.ctx, employee.ID, task.ID)
	suite.Require().NoError(err)
	suite.False(assigned)
	suite.Zero(suite.countAssignments("task_id = ? AND employee_id = ?", task.ID, employee.ID))
}

func (suite *RepositoryTestSuite) TestToggleAssignmentUnknownIDs() {
	position := suite.createPosition("Developer")
	employee := suite.createEmployee("alice", position.ID)
	taskType := suite.createTaskType("Bug")
	task := suite.createTask("Fix login", "2024-01-10", false, taskType.ID)

	_, err := suite.tasks.ToggleAssignment(suite.ctx, 999, task.ID)
	suite.ErrorIs(err, repository.ErrAssignmentEmployee)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)

	_, err = suite.tasks.ToggleAssignment(suite.ctx, employee.ID, 999)
	suite.ErrorIs(err, repository.ErrAssignmentTask)
	suite.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *RepositoryTestSuite) TestToggleCompleted() {
	taskType := suite.createTaskType("Bug")
	task := suite.createTask("Fix login", "2024-01-10", false, taskType.ID)

	suite.Require().NoError(suite.tasks.ToggleCompleted(suite.ctx, task.ID))
	found, err := suite.tasks.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.True(found.IsCompleted)

	suite.Require().NoError(suite.tasks.ToggleCompleted(suite.ctx, task.ID))
	found, err = suite.tasks.FindByID(suite.ctx, task.ID)
	suite.Require().NoError(err)
	suite.False(found.IsCompleted)

	suite.ErrorIs(suite.tasks.ToggleCompleted(suite.ctx, 999), gorm.ErrRecordNotFound)
}

func (suite *RepositoryTestSuite) TestTaskUpdateReplacesAssignees() {
	position := suite.createPosition("Developer")
	alice := suite.createEmployee("alice", position.ID)
	bob := suite.createEmployee("bob", position.ID)
	taskType := suite.createTaskType("Bug")
	task := suite.createTask("Fix login", "2024-01-10", false, taskType.ID, alice.ID)

	task.Name = "Fix logout"
	suite.Require().NoError(suite.tasks.Update(suite.ctx, task, nil))
	suite.Equal(int64(1), suite.countAssignments("task_id = ? AND employee_id = ?", task.ID, alice.ID))

	suite.Require().NoError(suite.tasks.Update(suite.ctx, task, []uint64{bob.ID}))
	suite.Zero(suite.countAssignments("task_id = ? AND employee_id = ?", task.ID, alice.ID))
	suite.Equal(int64(1), suite.countAssignments("task_id = ? AND employee_id = ?", task.ID, bob.ID))

	suite.Require().NoError(suite.tasks.Update(suite.ctx, task, []uint64{}))
	suite.Zero(suite.countAssignments("task_id = ?", task.ID))

	found, err := suite.tasks.FindByID(suite.ctx, task.ID, "Assignments.Employee")
	suite.Require().NoError(err)
	suite.Equal("Fix logout", found.Name)
	suite.Empty(found.Assignments)
}

func (suite *RepositoryTestSuite) TestEmployeeCounts() {
	position := suite.createPosition("Developer")
	alice := suite.createEmployee("alice", position.ID)
	bob := suite.createEmployee("bob", position.ID)

	count, err := suite.employees.Count(suite.ctx)
	suite.Require().NoError(err)
	suite.Equal(int64(2), count)

	count, err = suite.employees.CountByIDs(suite.ctx, []uint64{alice.ID, bob.ID, 999})
	suite.Require().NoError(err)
	suite.Equal(int64(2), count)
}

func (suite *RepositoryTestSuite) TestDuplicateUsernameIsTranslated() {
	position := suite.createPosition("Developer")
	suite.createEmployee("alice", position.ID)

	err := suite.employees.Create(suite.ctx, &models.Employee{
		Username:     "alice",
		PasswordHash: "x",
		FirstName:    "A",
		LastName:     "B",
		PositionID:   position.ID,
	})
	suite.ErrorIs(err, gorm.ErrDuplicatedKey)
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}
