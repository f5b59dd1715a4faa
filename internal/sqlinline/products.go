package sqlinline

const QSelectProductByID = `--sql 99cbcdba-7127-44c2-9809-ed085b4aed23
select id, name, description, category, price, quantity, min_order, images
from products
where id = $1
limit 1;
`
